package domain

type AssetKind string

const (
	AssetKindImage AssetKind = "image"
	AssetKindVideo AssetKind = "video"
)

// AssetRef aponta para um asset criativo já carregado na plataforma.
// Key indica qual campo do criativo recebe o valor (image_hash ou video_id).
// Preenchido apenas após upload bem-sucedido; imutável dentro da sessão.
type AssetRef struct {
	FileName string    `json:"file_name"`
	Type     AssetKind `json:"type"`
	Key      string    `json:"key"`
	Value    string    `json:"value"`
}

// AssetMap mapeia o nome do arquivo local enviado para o asset remoto
type AssetMap map[string]AssetRef
