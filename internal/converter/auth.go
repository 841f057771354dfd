package converter

import (
	dto "cozytown_backend/internal/api/dto/auth"
	"cozytown_backend/internal/model"
)

func RegisterRequestToUserModel(req *dto.RegisterRequest) *model.User {
	return &model.User{
		Name:     req.Name,
		Login:    req.Login,
		Password: req.Password,
	}
}

func LoginRequestToUserModel(req *dto.LoginRequest) *model.User {
	return &model.User{
		Login:    req.Login,
		Password: req.Password,
	}
}

func ToUsersResponse(users []model.User) dto.UsersResponse {
	result := make([]dto.UserResponse, len(users))
	for i, u := range users {
		result[i] = dto.UserResponse{
			ID:        u.ID,
			Name:      u.Name,
			Login:     u.Login,
			Coins:     u.Coins,
			CreatedAt: u.CreatedAt,
		}
	}
	return dto.UsersResponse{Users: result}
}
