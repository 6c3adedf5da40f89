package uploading

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/campaign-cloner-api/infrastructure/integrator/meta/metaclient"
	"github.com/vfg2006/campaign-cloner-api/internal/domain"
)

// ErrUnsupportedAsset indica uma extensão de arquivo fora dos formatos aceitos
var ErrUnsupportedAsset = errors.New("tipo de asset não suportado")

var (
	imageExtensions = map[string]bool{
		".jpg":  true,
		".jpeg": true,
		".png":  true,
		".gif":  true,
		".webp": true,
	}

	videoExtensions = map[string]bool{
		".mp4":  true,
		".mov":  true,
		".avi":  true,
		".mkv":  true,
		".webm": true,
	}
)

// Uploader envia assets criativos para a conta de anúncio. Imagens retornam
// hash, vídeos retornam id e só ficam prontos após o processamento remoto.
type Uploader interface {
	UploadAsset(ctx context.Context, accountID, fileName string, content []byte) (*domain.AssetRef, error)
}

type Service struct {
	client metaclient.Client
}

// NewService cria o serviço de upload de assets
func NewService(client metaclient.Client) Uploader {
	return &Service{client: client}
}

// UploadAsset decide o tipo do asset pela extensão do arquivo e o envia.
// Para vídeos, aguarda o processamento remoto terminar antes de retornar.
func (s *Service) UploadAsset(ctx context.Context, accountID, fileName string, content []byte) (*domain.AssetRef, error) {
	if len(content) == 0 {
		return nil, fmt.Errorf("arquivo %s vazio", fileName)
	}

	kind, err := assetKindFor(fileName)
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"account_id": accountID,
		"file_name":  fileName,
		"type":       string(kind),
		"size_bytes": len(content),
	}).Info("cloner: enviando asset criativo")

	switch kind {
	case domain.AssetKindImage:
		hash, err := s.client.UploadImage(ctx, accountID, fileName, content)
		if err != nil {
			return nil, fmt.Errorf("erro ao enviar a imagem %s: %w", fileName, err)
		}
		return &domain.AssetRef{
			FileName: fileName,
			Type:     domain.AssetKindImage,
			Key:      "image_hash",
			Value:    hash,
		}, nil

	case domain.AssetKindVideo:
		videoID, err := s.client.UploadVideo(ctx, accountID, fileName, content)
		if err != nil {
			return nil, fmt.Errorf("erro ao enviar o vídeo %s: %w", fileName, err)
		}
		if err := s.client.WaitVideoReady(ctx, videoID); err != nil {
			return nil, fmt.Errorf("vídeo %s enviado mas não ficou pronto: %w", fileName, err)
		}
		return &domain.AssetRef{
			FileName: fileName,
			Type:     domain.AssetKindVideo,
			Key:      "video_id",
			Value:    videoID,
		}, nil
	}

	return nil, fmt.Errorf("tipo de asset desconhecido para %s", fileName)
}

func assetKindFor(fileName string) (domain.AssetKind, error) {
	ext := strings.ToLower(filepath.Ext(fileName))
	switch {
	case imageExtensions[ext]:
		return domain.AssetKindImage, nil
	case videoExtensions[ext]:
		return domain.AssetKindVideo, nil
	}
	return "", fmt.Errorf("%w: extensão %q, envie imagem (jpg, png, gif, webp) ou vídeo (mp4, mov, avi, mkv, webm)", ErrUnsupportedAsset, ext)
}
