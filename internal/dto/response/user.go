package response

import (
	"time"

	"account-service/internal/data/entity"
)

// UserResponse is the public projection of a user record. Password and token
// hashes have no fields here, so they cannot leak by omission at a call site.
type UserResponse struct {
	ID         int64             `json:"id"`
	Role       entity.UserRole   `json:"role"`
	FirstName  string            `json:"firstName"`
	LastName   string            `json:"lastName"`
	Email      string            `json:"email"`
	Username   string            `json:"username"`
	Phone      *string           `json:"phone,omitempty"`
	Photo      *string           `json:"photo,omitempty"`
	IsActive   bool              `json:"isActive"`
	IsVerified bool              `json:"isVerified"`
	CreatedAt  time.Time         `json:"createdAt"`
	UpdatedAt  time.Time         `json:"updatedAt"`
	MetaData   *MetaDataResponse `json:"metaData,omitempty"`
}

type MetaDataResponse struct {
	IP        *string   `json:"ip,omitempty"`
	City      *string   `json:"city,omitempty"`
	Region    *string   `json:"region,omitempty"`
	Country   *string   `json:"country,omitempty"`
	Timezone  *string   `json:"timezone,omitempty"`
	LastVisit time.Time `json:"lastVisit"`
}

func UserToResponse(user *entity.User) *UserResponse {
	resp := &UserResponse{
		ID:         user.ID,
		Role:       user.Role,
		FirstName:  user.FirstName,
		LastName:   user.LastName,
		Email:      user.Email,
		Username:   user.Username,
		Phone:      user.Phone,
		Photo:      user.Photo,
		IsActive:   user.IsActive,
		IsVerified: user.IsVerified,
		CreatedAt:  user.CreatedAt,
		UpdatedAt:  user.UpdatedAt,
	}

	if user.MetaData != nil {
		resp.MetaData = &MetaDataResponse{
			IP:        user.MetaData.IP,
			City:      user.MetaData.City,
			Region:    user.MetaData.Region,
			Country:   user.MetaData.Country,
			Timezone:  user.MetaData.Timezone,
			LastVisit: user.MetaData.LastVisit,
		}
	}

	return resp
}

type UsersResponse struct {
	Count int             `json:"count"`
	Users []*UserResponse `json:"users"`
}

func UsersToResponse(users []*entity.User) *UsersResponse {
	resp := &UsersResponse{
		Count: len(users),
		Users: make([]*UserResponse, 0, len(users)),
	}
	for _, user := range users {
		resp.Users = append(resp.Users, UserToResponse(user))
	}
	return resp
}
