package attendance

import "time"

// Session identifies one bounded work interval within a day.
type Session string

const (
	SessionMorning   Session = "morning"
	SessionAfternoon Session = "afternoon"
	SessionOvertime  Session = "overtime"
)

// Remark classifications for a clock action.
const (
	RemarkNormal         = "Normal"
	RemarkLate           = "Late"
	RemarkEarlyDeparture = "Early Departure"
)

// Approval and status values persisted on a record.
const (
	ApprovalPending = "Pending"
	StatusPresent   = "present"
	StatusLate      = "late"
)

// Record is one student's attendance for one calendar date of a practicum.
// Each session has a nullable in/out pair; a session's out may only be set
// when its in is set, and at most one session is open at a time.
type Record struct {
	ID          string `json:"id"`
	StudentID   string `json:"student_id"`
	PracticumID string `json:"practicum_id"`
	Date        string `json:"date"` // YYYY-MM-DD, server timezone

	MorningTimeIn    *time.Time `json:"morning_time_in,omitempty"`
	MorningTimeOut   *time.Time `json:"morning_time_out,omitempty"`
	AfternoonTimeIn  *time.Time `json:"afternoon_time_in,omitempty"`
	AfternoonTimeOut *time.Time `json:"afternoon_time_out,omitempty"`
	OvertimeTimeIn   *time.Time `json:"overtime_time_in,omitempty"`
	OvertimeTimeOut  *time.Time `json:"overtime_time_out,omitempty"`

	Hours          float64 `json:"hours"`
	UndertimeHours float64 `json:"undertime_hours"`
	Status         string  `json:"status"`
	TimeInRemarks  string  `json:"time_in_remarks"`
	TimeOutRemarks string  `json:"time_out_remarks"`
	ApprovalStatus string  `json:"approval_status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// sessionTimes returns pointers to the in/out fields for a session so the
// determiner, nullifier and orchestrators share one accessor.
func (r *Record) sessionTimes(s Session) (in, out **time.Time) {
	switch s {
	case SessionMorning:
		return &r.MorningTimeIn, &r.MorningTimeOut
	case SessionAfternoon:
		return &r.AfternoonTimeIn, &r.AfternoonTimeOut
	default:
		return &r.OvertimeTimeIn, &r.OvertimeTimeOut
	}
}

// SessionOpen reports whether the session has a clock-in but no clock-out.
func (r *Record) SessionOpen(s Session) bool {
	in, out := r.sessionTimes(s)
	return *in != nil && *out == nil
}

// SessionComplete reports whether both timestamps of the session are set.
func (r *Record) SessionComplete(s Session) bool {
	in, out := r.sessionTimes(s)
	return *in != nil && *out != nil
}

// OpenSession returns the currently open session, if any. Precedence is
// overtime, then afternoon, then morning, matching clock-out resolution.
func (r *Record) OpenSession() (Session, bool) {
	for _, s := range []Session{SessionOvertime, SessionAfternoon, SessionMorning} {
		if r.SessionOpen(s) {
			return s, true
		}
	}
	return "", false
}

// ClearSession nullifies both timestamps of a session without deleting the
// record.
func (r *Record) ClearSession(s Session) {
	in, out := r.sessionTimes(s)
	*in, *out = nil, nil
}

// ClockMeta is the pass-through device/location/photo metadata captured
// with each clock action. The core never interprets it.
type ClockMeta struct {
	Latitude     *float64 `json:"latitude,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty"`
	Address      string   `json:"address,omitempty"`
	LocationType string   `json:"location_type,omitempty"`
	DeviceType   string   `json:"device_type,omitempty"`
	DeviceUnit   string   `json:"device_unit,omitempty"`
	MacAddress   string   `json:"mac_address,omitempty"`
	PhotoURL     string   `json:"photo_url,omitempty"`
}

// DetailLog is one row per session attempt: created at clock-in, completed
// at the matching clock-out.
type DetailLog struct {
	ID          string     `json:"id"`
	RecordID    string     `json:"record_id"`
	SessionType Session    `json:"session_type"`
	TimeIn      time.Time  `json:"time_in"`
	TimeOut     *time.Time `json:"time_out,omitempty"`
	InMeta      ClockMeta  `json:"in_meta"`
	OutMeta     *ClockMeta `json:"out_meta,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
