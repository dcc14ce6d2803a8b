/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. The plan
  configuration itself serializes through its domain type (that shape
  is the persisted contract); everything else gets an explicit DTO so
  the wire format can evolve without touching the engine.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

SEE ALSO:
  - handlers.go: Uses these types
  - pto/types.go: the plan config JSON shape
*/
package api

// ErrorResponse is the JSON body of every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// DayListDTO is the selected-day set.
type DayListDTO struct {
	Days []string `json:"days"`
}

// AddDayRequest selects one day off.
type AddDayRequest struct {
	Date string `json:"date"`
}

// InsufficientBalanceResponse explains a rejected day selection: the
// balance available on that date was below one day.
type InsufficientBalanceResponse struct {
	Error     string `json:"error"`
	Date      string `json:"date"`
	Available string `json:"available"`
}

// TransactionDTO is one ledger transaction.
type TransactionDTO struct {
	Date   string `json:"date"`
	Type   string `json:"type"`
	Amount string `json:"amount"`
	Unit   string `json:"unit"`
	Note   string `json:"note,omitempty"`
}

// LedgerEntryDTO is one day of the ledger.
type LedgerEntryDTO struct {
	Date         string           `json:"date"`
	Balance      string           `json:"balance"`
	Transactions []TransactionDTO `json:"transactions,omitempty"`
}

// LedgerDTO is a year's slice of the ledger plus build diagnostics.
type LedgerDTO struct {
	Year     int              `json:"year"`
	Unit     string           `json:"unit"`
	Entries  []LedgerEntryDTO `json:"entries"`
	Warnings []WarningDTO     `json:"warnings,omitempty"`
}

// WarningDTO is a non-fatal build diagnostic.
type WarningDTO struct {
	Code    string `json:"code"`
	Date    string `json:"date,omitempty"`
	Message string `json:"message"`
}

// BalanceDTO answers a point-in-time balance query.
type BalanceDTO struct {
	Date    string `json:"date"`
	Balance string `json:"balance"`
	Unit    string `json:"unit"`
}

// SuggestRequest asks the optimizer for candidate days off.
type SuggestRequest struct {
	Strategy string   `json:"strategy"`
	Year     int      `json:"year"`
	Holidays []string `json:"holidays,omitempty"`
	// WeekendDays are time.Weekday numbers (0=Sunday). Defaults to
	// Saturday and Sunday.
	WeekendDays []int `json:"weekendDays,omitempty"`
}

// SuggestionRunDTO is one recorded optimizer run. Suggested days are
// candidates only; they are never applied to the selected set.
type SuggestionRunDTO struct {
	ID        string   `json:"id"`
	Strategy  string   `json:"strategy"`
	Days      []string `json:"days"`
	CreatedAt string   `json:"created_at"`
}
