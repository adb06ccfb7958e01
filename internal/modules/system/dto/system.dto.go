package dto

// InfoResponse décrit l'application et son catalogue d'entités
type InfoResponse struct {
	Application string       `json:"application"`
	Version     string       `json:"version"`
	Environment string       `json:"environment"`
	Entities    []EntityInfo `json:"entities"`
}

// EntityInfo résume une entité du référentiel
type EntityInfo struct {
	Name    string `json:"name"`
	Libelle string `json:"libelle"`
	Prefix  string `json:"prefix"`
}

// StatsResponse porte les compteurs d'enregistrements par entité
type StatsResponse struct {
	Entities map[string]int64 `json:"entities"`
	Total    int64            `json:"total"`
	Users    int64            `json:"users"`
}

// ReadyResponse détaille l'état des dépendances d'infrastructure
type ReadyResponse struct {
	Ready    bool              `json:"ready"`
	Services map[string]string `json:"services"`
}
