package converter

import (
	dto "cozytown_backend/internal/api/dto/push"
	"cozytown_backend/internal/model"
)

func ToPushMessage(req dto.SendRequest) model.PushMessage {
	return model.PushMessage{
		Title: req.Title,
		Body:  req.Body,
	}
}

func ToSendResponse(r model.PushReport) dto.SendResponse {
	return dto.SendResponse{
		Message:            "Push notifications sent",
		TotalSubscriptions: r.Total,
		SuccessCount:       r.Success,
	}
}
