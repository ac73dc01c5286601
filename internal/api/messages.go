// Package api defines the CampusWall gRPC contract shared by the server and
// the client: message types, the service descriptor and a client stub.
package api

import "time"

type Profile struct {
	UserID        int64   `json:"user_id"`
	PhoneNumber   string  `json:"phone_number,omitempty"`
	Nickname      string  `json:"nickname"`
	AvatarURL     string  `json:"avatar_url"`
	BackgroundURL string  `json:"background_url"`
	Signature     string  `json:"signature"`
	Gender        int     `json:"gender"`
	UniversityID  *int64  `json:"university_id,omitempty"`
	University    *string `json:"university,omitempty"`
}

type Box struct {
	BoxID     int64     `json:"box_id"`
	UserID    int64     `json:"user_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Contact   string    `json:"contact"`
	CreatedAt time.Time `json:"created_at"`
}

type BoxDetails struct {
	Box
	PictureList    []string `json:"picture_list"`
	UniversityList []string `json:"university_list"`
}

type ViewedBox struct {
	Box
	ViewedAt time.Time `json:"viewed_at"`
}

type PingRequest struct{}

type PingResponse struct {
	Status string `json:"status"`
}

type RegisterRequest struct {
	PhoneNumber string `json:"phone_number"`
	Password    string `json:"password"`
}

type RegisterResponse struct {
	UserID int64 `json:"user_id"`
}

type LoginRequest struct {
	PhoneNumber string `json:"phone_number"`
	Password    string `json:"password"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Profile   *Profile  `json:"profile"`
}

// GetProfileRequest reads another user's profile; zero means the caller.
type GetProfileRequest struct {
	UserID int64 `json:"user_id,omitempty"`
}

type ProfileResponse struct {
	Profile *Profile `json:"profile"`
}

// UpdateProfileRequest carries only the fields to change.
type UpdateProfileRequest struct {
	Fields map[string]any `json:"fields"`
}

type ListUsersRequest struct{}

type ListUsersResponse struct {
	Users []*Profile `json:"users"`
}

type PostBoxRequest struct {
	Title         string   `json:"title"`
	Content       string   `json:"content"`
	Contact       string   `json:"contact"`
	Pictures      []string `json:"picture_list"`
	UniversityIDs []int64  `json:"university_ids"`
}

type PostBoxResponse struct {
	BoxID int64 `json:"box_id"`
}

type RandomBoxRequest struct{}

type BoxResponse struct {
	Box *BoxDetails `json:"box"`
}

type RecordViewRequest struct {
	BoxID int64 `json:"box_id"`
}

type RecordViewResponse struct{}

type HistoryRequest struct{}

type HistoryResponse struct {
	Boxes []*ViewedBox `json:"boxes"`
}

// Upload kinds accepted by PresignUpload.
const (
	UploadBoxPicture = "box_picture"
	UploadAvatar     = "avatar"
	UploadBackground = "background"
)

type PresignUploadRequest struct {
	Kind string `json:"kind"`
}

type PresignDownloadRequest struct {
	Key string `json:"key"`
}

type PresignResponse struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}
