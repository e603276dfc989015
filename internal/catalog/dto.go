package catalog

import "github.com/angelmondragon/jewelcraft-backend/pkg/db/models"

// AttributeDTO is the API shape of an attribute value.
type AttributeDTO struct {
	ID       string `json:"id"`
	Kind     string `json:"kind"`
	Code     string `json:"code"`
	Name     string `json:"name"`
	Position int    `json:"position"`
}

func toAttributeDTO(v models.AttributeValue) AttributeDTO {
	return AttributeDTO{
		ID:       v.ID,
		Kind:     v.Kind.String(),
		Code:     v.Code,
		Name:     v.Name,
		Position: v.Position,
	}
}
