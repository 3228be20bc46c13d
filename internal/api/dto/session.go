package dto

import "dispatch-compliance-service/internal/domain"

type SetTierRequest struct {
	Tier string `json:"tier"`
}

type EntitlementsResponse struct {
	SessionID    string              `json:"session_id"`
	Tier         string              `json:"tier"`
	Entitlements domain.Entitlements `json:"entitlements"`
}

func FromSession(s domain.Session) EntitlementsResponse {
	return EntitlementsResponse{
		SessionID:    s.ID,
		Tier:         string(s.Tier),
		Entitlements: domain.EntitlementsFor(s.Tier),
	}
}
