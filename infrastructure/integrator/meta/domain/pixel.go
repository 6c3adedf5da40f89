package metadomain

// Pixel representa um pixel de conversão disponível na conta de anúncios
type Pixel struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
