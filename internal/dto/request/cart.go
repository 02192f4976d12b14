package request

type AddRoomRequest struct {
	CategoryID string `json:"categoryId" validate:"required,uuid"`
	StartDate  string `json:"startDate" validate:"required,isodate"`
	EndDate    string `json:"endDate" validate:"required,isodate"`
}

type AddServiceRequest struct {
	ServiceID string `json:"serviceId" validate:"required,uuid"`
	Date      string `json:"date" validate:"required,isodate"`
	Time      string `json:"time" validate:"required,datetime=15:04"`
}
