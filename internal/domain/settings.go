package domain

// CompanySettings mirrors the issuer registration kept by the backend. The
// terminal only passes it through; fiscal documents are built server side.
type CompanySettings struct {
	ID               int64  `json:"id,omitempty"`
	CNPJ             string `json:"cnpj"`
	IE               string `json:"ie"`
	RazaoSocial      string `json:"razao_social"`
	NomeFantasia     string `json:"nome_fantasia"`
	Logradouro       string `json:"logradouro"`
	Numero           string `json:"numero"`
	Bairro           string `json:"bairro"`
	Municipio        string `json:"municipio"`
	UF               string `json:"uf"`
	CEP              string `json:"cep"`
	RegimeTributario int    `json:"regime_tributario"`
}
