package dto

import (
	"strings"

	"revisionHub/internal/models/calendar"
	"revisionHub/internal/models/user"
	"revisionHub/internal/service"

	"github.com/google/uuid"
)

// ReplaceCollectionRequest - любые из четырёх полей, отсутствующие не меняются
type ReplaceCollectionRequest struct {
	Events     map[string][]calendar.TaskRecord `json:"events,omitempty"`
	DoneMap    map[string][]bool                `json:"doneMap,omitempty"`
	Categories []string                         `json:"categories,omitempty"`
	DayTypes   map[string]calendar.DayType      `json:"dayTypes,omitempty"`
}

func (r ReplaceCollectionRequest) ToPatch() service.CollectionPatch {
	return service.CollectionPatch{
		Events:     r.Events,
		DoneMap:    r.DoneMap,
		Categories: r.Categories,
		DayTypes:   r.DayTypes,
	}
}

// AddTasksRequest принимает одну задачу в text или несколько в texts
type AddTasksRequest struct {
	Text     string   `json:"text,omitempty"`
	Texts    []string `json:"texts,omitempty"`
	Category *string  `json:"category,omitempty"`
}

func (r AddTasksRequest) AllTexts() []string {
	texts := make([]string, 0, len(r.Texts)+1)
	if strings.TrimSpace(r.Text) != "" {
		texts = append(texts, r.Text)
	}
	return append(texts, r.Texts...)
}

func (r AddTasksRequest) Options() []calendar.TaskOption {
	if r.Category == nil {
		return nil
	}
	return []calendar.TaskOption{calendar.WithCategory(*r.Category)}
}

type AddTasksResponse struct {
	Date    string `json:"date"`
	Indexes []int  `json:"indexes"`
}

type SetCompletionRequest struct {
	IsCompleted *bool `json:"isCompleted"`
}

type SetDayTypeRequest struct {
	Type calendar.DayType `json:"type"`
}

type CategoryRequest struct {
	Name string `json:"name"`
}

type CoverageResponse struct {
	Start     string `json:"start"`
	End       string `json:"end"`
	Category  string `json:"category,omitempty"`
	Completed int    `json:"completed"`
	Left      int    `json:"left"`
	Total     int    `json:"total"`
}

func FromCoverage(start, end, category string, c calendar.Coverage) CoverageResponse {
	return CoverageResponse{
		Start:     start,
		End:       end,
		Category:  category,
		Completed: c.Completed,
		Left:      c.Left,
		Total:     c.Total(),
	}
}

type SignUpRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UserResponse struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

func ToUserResponse(u *user.User) UserResponse {
	return UserResponse{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
	}
}

func FromUser(u *user.User, token string) AuthResponse {
	return AuthResponse{
		Token: token,
		User:  ToUserResponse(u),
	}
}
