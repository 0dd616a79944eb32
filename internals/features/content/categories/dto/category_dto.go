package dto

type CreateCategoryRequest struct {
	Name  string `json:"name" validate:"required,min=2,max=100"`
	Emoji string `json:"emoji" validate:"omitempty,max=8"`
}

type UpdateCategoryRequest struct {
	Name   string `json:"name" validate:"omitempty,min=2,max=100"`
	Emoji  string `json:"emoji" validate:"omitempty,max=8"`
	Status string `json:"status" validate:"omitempty,oneof=Active Inactive"`
}

type CreateSubcategoryRequest struct {
	Name       string `json:"name" validate:"required,min=2,max=100"`
	CategoryID string `json:"categoryId" validate:"required"`
}

type UpdateSubcategoryRequest struct {
	Name   string `json:"name" validate:"omitempty,min=2,max=100"`
	Status string `json:"status" validate:"omitempty,oneof=Active Inactive"`
}
