package models

import (
	"time"

	"gorm.io/datatypes"
)

// Request - заявка на донорскую кровь с жизненным циклом статусов:
// open -> {accepted, cancelled, closed}, accepted -> {completed, cancelled}.
type Request struct {
	BaseModel
	BloodGroup   string                      `gorm:"not null;index" json:"bloodGroup"`
	Urgency      RequestUrgency              `gorm:"type:varchar(20);not null;default:'normal'" json:"urgency"`
	Location     string                      `json:"location"`
	Hospital     string                      `json:"hospital"`
	RequesterID  string                      `gorm:"not null;index" json:"requesterId"`
	PatientName  string                      `json:"patientName"`
	Status       RequestStatus               `gorm:"type:varchar(20);not null;index" json:"status"`
	RequiredDate time.Time                   `json:"requiredDate"`
	Responders   datatypes.JSONSlice[string] `json:"responders"` // append-only пока заявка open
}

func (r *Request) IsOpen() bool {
	return r.Status == RequestStatusOpen
}

// LastResponder возвращает id донора, принявшего заявку последним
// (именно он получает action-уведомления), либо "".
func (r *Request) LastResponder() string {
	if len(r.Responders) == 0 {
		return ""
	}
	return r.Responders[len(r.Responders)-1]
}
