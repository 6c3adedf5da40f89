package domain

type Campaign struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
