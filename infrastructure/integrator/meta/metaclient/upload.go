package metaclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"
)

// Estados terminais do processamento de vídeo na plataforma
var videoTerminalStatuses = map[string]bool{
	"ready":            true,
	"error":            true,
	"processing_error": true,
	"failed":           true,
}

// doPostMultipart envia um arquivo como multipart/form-data com retry
func (c *MetaClient) doPostMultipart(ctx context.Context, path, fieldName, fileName string, content []byte) ([]byte, error) {
	if err := c.EnsureValidToken(); err != nil {
		return nil, fmt.Errorf("erro ao verificar validade do token: %w", err)
	}

	requestURL := fmt.Sprintf("%s/%s", c.Cfg.Meta.URL, path)

	attempt := func(ctx context.Context) ([]byte, error) {
		var buffer bytes.Buffer
		writer := multipart.NewWriter(&buffer)

		if err := writer.WriteField("access_token", c.Cfg.Meta.AccessToken); err != nil {
			return nil, err
		}

		part, err := writer.CreateFormFile(fieldName, fileName)
		if err != nil {
			return nil, err
		}
		if _, err := part.Write(content); err != nil {
			return nil, err
		}
		if err := writer.Close(); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, requestURL, &buffer)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", writer.FormDataContentType())

		resp, err := c.HTTPClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		return c.HandleResponse(resp)
	}

	body, err := c.Executor.Execute(ctx, "POST "+path, attempt)
	if err != nil && err.Error() == tokenRenewedMessage {
		return c.Executor.Execute(ctx, "POST "+path, attempt)
	}
	return body, err
}

type imageUploadResponse struct {
	Images map[string]struct {
		Hash string `json:"hash"`
	} `json:"images"`
}

// UploadImage envia uma imagem para a biblioteca da conta e devolve o hash
// que os criativos usam para referenciá-la
func (c *MetaClient) UploadImage(ctx context.Context, accountID, fileName string, content []byte) (string, error) {
	path := fmt.Sprintf("act_%s/adimages", accountID)

	body, err := c.doPostMultipart(ctx, path, fileName, fileName, content)
	if err != nil {
		return "", err
	}

	var response imageUploadResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("erro ao decodificar resposta do upload de imagem: %w", err)
	}

	for _, image := range response.Images {
		if image.Hash != "" {
			return image.Hash, nil
		}
	}

	return "", fmt.Errorf("upload de imagem %s não devolveu hash", fileName)
}

type videoUploadResponse struct {
	ID string `json:"id"`
}

// UploadVideo envia um vídeo para a conta e devolve o ID dele. O vídeo
// ainda passa por processamento assíncrono; use WaitVideoReady antes de
// referenciá-lo em um criativo.
func (c *MetaClient) UploadVideo(ctx context.Context, accountID, fileName string, content []byte) (string, error) {
	path := fmt.Sprintf("act_%s/advideos", accountID)

	body, err := c.doPostMultipart(ctx, path, "source", fileName, content)
	if err != nil {
		return "", err
	}

	var response videoUploadResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("erro ao decodificar resposta do upload de vídeo: %w", err)
	}
	if response.ID == "" {
		return "", fmt.Errorf("upload de vídeo %s não devolveu ID", fileName)
	}

	return response.ID, nil
}

type videoStatusResponse struct {
	Status struct {
		VideoStatus string `json:"video_status"`
	} `json:"status"`
}

// WaitVideoReady aguarda o processamento do vídeo até um estado terminal,
// respeitando o intervalo de polling e o tempo máximo configurados
func (c *MetaClient) WaitVideoReady(ctx context.Context, videoID string) error {
	interval := time.Duration(c.Cfg.MetaUpload.VideoPollIntervalSeconds) * time.Second
	deadline := time.Now().Add(time.Duration(c.Cfg.MetaUpload.VideoTimeoutSeconds) * time.Second)

	params := url.Values{}
	params.Set("fields", "status")

	for {
		body, err := c.doGet(ctx, videoID, params)
		if err != nil {
			return err
		}

		var response videoStatusResponse
		if err := json.Unmarshal(body, &response); err != nil {
			return fmt.Errorf("erro ao decodificar status do vídeo %s: %w", videoID, err)
		}

		status := response.Status.VideoStatus
		if videoTerminalStatuses[status] {
			if status != "ready" {
				return fmt.Errorf("processamento do vídeo %s terminou com status %s", videoID, status)
			}
			logrus.WithField("video_id", videoID).Info("Vídeo processado e pronto para uso")
			return nil
		}

		if time.Now().After(deadline) {
			return fmt.Errorf("tempo esgotado aguardando o processamento do vídeo %s (último status: %s)", videoID, status)
		}

		if err := sleepWithContext(ctx, interval); err != nil {
			return err
		}
	}
}
