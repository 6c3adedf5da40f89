package uploading

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/campaign-cloner-api/infrastructure/integrator/meta/metaclient/mocks"
	"github.com/vfg2006/campaign-cloner-api/internal/domain"
	"go.uber.org/mock/gomock"
)

func TestUploadAsset(t *testing.T) {
	content := []byte("conteudo do arquivo")

	t.Run("Imagem devolve image_hash", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockClient := mocks.NewMockClient(ctrl)
		mockClient.EXPECT().
			UploadImage(gomock.Any(), "123", "banner.PNG", content).
			Return("hash-abc", nil)

		service := NewService(mockClient)

		ref, err := service.UploadAsset(context.Background(), "123", "banner.PNG", content)

		require.NoError(t, err)
		assert.Equal(t, domain.AssetKindImage, ref.Type)
		assert.Equal(t, "image_hash", ref.Key)
		assert.Equal(t, "hash-abc", ref.Value)
		assert.Equal(t, "banner.PNG", ref.FileName)
	})

	t.Run("Vídeo devolve video_id após o processamento", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockClient := mocks.NewMockClient(ctrl)
		gomock.InOrder(
			mockClient.EXPECT().
				UploadVideo(gomock.Any(), "123", "video.mp4", content).
				Return("v-987", nil),
			mockClient.EXPECT().
				WaitVideoReady(gomock.Any(), "v-987").
				Return(nil),
		)

		service := NewService(mockClient)

		ref, err := service.UploadAsset(context.Background(), "123", "video.mp4", content)

		require.NoError(t, err)
		assert.Equal(t, domain.AssetKindVideo, ref.Type)
		assert.Equal(t, "video_id", ref.Key)
		assert.Equal(t, "v-987", ref.Value)
	})

	t.Run("Vídeo que não fica pronto devolve erro", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockClient := mocks.NewMockClient(ctrl)
		mockClient.EXPECT().
			UploadVideo(gomock.Any(), "123", "video.mov", content).
			Return("v-987", nil)
		mockClient.EXPECT().
			WaitVideoReady(gomock.Any(), "v-987").
			Return(errors.New("processamento expirou"))

		service := NewService(mockClient)

		ref, err := service.UploadAsset(context.Background(), "123", "video.mov", content)

		require.Error(t, err)
		assert.Nil(t, ref)
	})

	t.Run("Extensão desconhecida devolve erro tipado sem chamada de rede", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		service := NewService(mocks.NewMockClient(ctrl))

		ref, err := service.UploadAsset(context.Background(), "123", "documento.pdf", content)

		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnsupportedAsset)
		assert.Nil(t, ref)
	})

	t.Run("Arquivo vazio devolve erro sem chamada de rede", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		service := NewService(mocks.NewMockClient(ctrl))

		ref, err := service.UploadAsset(context.Background(), "123", "banner.png", nil)

		require.Error(t, err)
		assert.Nil(t, ref)
	})
}

func TestAssetKindFor(t *testing.T) {
	tests := []struct {
		name     string
		fileName string
		expected domain.AssetKind
		wantErr  bool
	}{
		{name: "JPEG é imagem", fileName: "foto.jpeg", expected: domain.AssetKindImage},
		{name: "WEBP é imagem", fileName: "foto.webp", expected: domain.AssetKindImage},
		{name: "MKV é vídeo", fileName: "filme.mkv", expected: domain.AssetKindVideo},
		{name: "Extensão maiúscula é normalizada", fileName: "FILME.MP4", expected: domain.AssetKindVideo},
		{name: "Sem extensão é erro", fileName: "arquivo", wantErr: true},
		{name: "Extensão de documento é erro", fileName: "planilha.xlsx", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, err := assetKindFor(tt.fileName)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedAsset)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, kind)
		})
	}
}
