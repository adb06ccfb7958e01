package dto

import "time"

// Fonctions pures de présentation des valeurs stockées.
// Chaque fonction est totale : toute valeur, y compris nil ou inattendue,
// produit un libellé défini ("Non défini" / "N/A").

const LibelleNonDefini = "Non défini"

// LibelleOuiNon convertit un drapeau 0/1 en libellé Oui/Non
func LibelleOuiNon(v any) string {
	switch flag(v) {
	case 1:
		return "Oui"
	case 0:
		return "Non"
	}
	return LibelleNonDefini
}

// LibelleAutorisation convertit un drapeau 0/1 en libellé d'autorisation
func LibelleAutorisation(v any) string {
	switch flag(v) {
	case 1:
		return "Autorisé"
	case 0:
		return "Non autorisé"
	}
	return LibelleNonDefini
}

// flag normalise les représentations entières issues du JSON et de pgx.
// Retourne -1 pour toute valeur hors {0,1}.
func flag(v any) int {
	var n int
	switch x := v.(type) {
	case int:
		n = x
	case int32:
		n = int(x)
	case int64:
		n = int(x)
	case float64:
		n = int(x)
	case bool:
		if x {
			return 1
		}
		return 0
	default:
		return -1
	}
	if n == 0 || n == 1 {
		return n
	}
	return -1
}

// LibelleStatutDossier retourne le libellé d'un statut de dossier candidat
func LibelleStatutDossier(statut string) string {
	switch statut {
	case "incomplet":
		return "Dossier incomplet"
	case "complet":
		return "Dossier complet"
	case "valide":
		return "Dossier validé"
	case "rejete":
		return "Dossier rejeté"
	}
	return LibelleNonDefini
}

// CouleurStatutDossier retourne la classe de style associée à un statut
func CouleurStatutDossier(statut string) string {
	switch statut {
	case "incomplet":
		return "warning"
	case "complet":
		return "info"
	case "valide":
		return "success"
	case "rejete":
		return "danger"
	}
	return "muted"
}

// FormatHeure formate une date de création pour l'affichage.
// Accepte time.Time ou les représentations texte du fil, "N/A" sinon.
func FormatHeure(v any) string {
	if t, ok := HeureTime(v); ok {
		return t.Format("02/01/2006 15:04")
	}
	return "N/A"
}

// HeureTime extrait l'instant d'une valeur heure, quel que soit son encodage.
// Le tri des colonnes date compare ces instants (époque), jamais les
// chaînes formatées.
func HeureTime(v any) (time.Time, bool) {
	switch x := v.(type) {
	case time.Time:
		return x, true
	case *time.Time:
		if x != nil {
			return *x, true
		}
	case string:
		for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
			if t, err := time.Parse(layout, x); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}
