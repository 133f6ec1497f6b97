package models

// PartyTypeGroup — тип партии для организаций.
const PartyTypeGroup = "PARTY_GROUP"

// PartyGroup представляет организацию (тенант). Не хранится, только возвращается в ответе.
type PartyGroup struct {
	PartyID     string `json:"partyId"`
	GroupName   string `json:"groupName"`
	PartyTypeID string `json:"partyTypeId"`
}
