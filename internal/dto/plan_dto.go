package dto

import "time"

// UsageResponse is the live quota snapshot. A limit of -1 means unlimited.
type UsageResponse struct {
	Tier             string     `json:"tier"`
	Status           string     `json:"status"`
	PeriodEnd        *time.Time `json:"period_end"`
	NotesCount       int64      `json:"notes_count"`
	FoldersCount     int64      `json:"folders_count"`
	NoteLimit        int64      `json:"note_limit"`
	FolderLimit      int64      `json:"folder_limit"`
	UpgradeAvailable bool       `json:"upgrade_available"`
}

type PlanCatalogueItem struct {
	Tier          string `json:"tier"`
	Name          string `json:"name"`
	Tagline       string `json:"tagline"`
	Price         int64  `json:"price"`
	BillingPeriod string `json:"billing_period,omitempty"`
	NoteLimit     int64  `json:"note_limit"`
	FolderLimit   int64  `json:"folder_limit"`
}

type PlanState struct {
	Tier      string     `json:"tier"`
	Status    string     `json:"status"`
	PeriodEnd *time.Time `json:"period_end"`
}

// PlanStateMessage is pushed to every open session of the user after a
// subscription change.
type PlanStateMessage struct {
	Type string    `json:"type"`
	Data PlanState `json:"data"`
}

// PlanStateEnvelope travels on the in-process bus and across instances.
type PlanStateEnvelope struct {
	UserId string    `json:"user_id"`
	State  PlanState `json:"state"`
}

// LimitReachedResponse is the upgrade prompt returned with a 403.
type LimitReachedResponse struct {
	Reason     string `json:"reason"`
	Resource   string `json:"resource"`
	Limit      int64  `json:"limit"`
	UpgradeURL string `json:"upgrade_url,omitempty"`
}
