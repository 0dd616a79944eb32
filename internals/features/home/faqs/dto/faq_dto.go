package dto

type CreateFaqRequest struct {
	Question string `json:"question" validate:"required,min=5,max=300"`
	Answer   string `json:"answer" validate:"required,min=5"`
	Order    int    `json:"order" validate:"gte=0"`
}

type UpdateFaqRequest struct {
	Question string `json:"question" validate:"omitempty,min=5,max=300"`
	Answer   string `json:"answer" validate:"omitempty,min=5"`
	Order    *int   `json:"order" validate:"omitempty,gte=0"`
}
