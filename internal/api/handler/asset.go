package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/campaign-cloner-api/internal/usecases/uploading"
	"github.com/vfg2006/campaign-cloner-api/pkg/apiErrors"
)

// Limite do corpo da requisição de upload
const maxUploadBytes = 512 << 20

// UploadAsset recebe um arquivo multipart e o envia para a conta de
// anúncios. O arquivo passa por um temporário local removido ao final.
func UploadAsset(service uploading.Uploader) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - UploadAsset")

		accountID := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if accountID == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "ID da conta é obrigatório", nil)
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
		file, header, err := r.FormFile("file")
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrUploadInvalid, "Arquivo ausente ou inválido: "+err.Error(), nil)
			return
		}
		defer file.Close()

		tempFile, err := os.CreateTemp("", "asset_upload_*"+filepath.Ext(header.Filename))
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao preparar o arquivo temporário", nil)
			return
		}
		tempPath := tempFile.Name()
		defer os.Remove(tempPath)

		if _, err := io.Copy(tempFile, file); err != nil {
			tempFile.Close()
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao gravar o arquivo temporário", nil)
			return
		}
		if err := tempFile.Close(); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao fechar o arquivo temporário", nil)
			return
		}

		content, err := os.ReadFile(tempPath)
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao ler o arquivo temporário", nil)
			return
		}

		asset, err := service.UploadAsset(r.Context(), accountID, header.Filename, content)
		if err != nil {
			logrus.Error("Error uploading asset:", err)
			if errors.Is(err, uploading.ErrUnsupportedAsset) {
				apiErrors.WriteError(w, apiErrors.ErrUploadInvalid, err.Error(), nil)
				return
			}
			writeMetaError(w, err, "Erro ao enviar o asset: "+err.Error())
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(asset); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao codificar resposta", nil)
		}
	})
}
