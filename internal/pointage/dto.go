package pointage

type ClockDTO struct {
	Note string `json:"note,omitempty"`
}

type PointagesResponse struct {
	Success   bool        `json:"success"`
	Pointages []*Pointage `json:"pointages"`
}

type BreaksResponse struct {
	Success bool     `json:"success"`
	Breaks  []*Break `json:"breaks"`
}
