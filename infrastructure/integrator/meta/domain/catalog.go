package metadomain

// ProductCatalog é um catálogo de produtos vinculado à conta de anúncios
type ProductCatalog struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ProductSet é um conjunto de produtos dentro de um catálogo, usado por
// criativos de coleção
type ProductSet struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
