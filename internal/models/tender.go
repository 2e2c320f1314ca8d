package models

import "time"

// Tender представляет каноническую запись тендера.
// ExternalRef - единый стабильный идентификатор записи во всех источниках фида.
type Tender struct {
	ExternalRef       string    `json:"tenderRef"`
	Title             string    `json:"title"`
	Brief             string    `json:"brief"`
	Category          string    `json:"category"`
	ProcurementMethod string    `json:"procurementMethod"`
	ProcuringEntity   string    `json:"procuringEntity"`
	Country           string    `json:"country"`
	DocumentURL       string    `json:"documentUrl,omitempty"`
	PublishedAt       time.Time `json:"publishedAt"`
	ClosesAt          time.Time `json:"closesAt"`
	PaidUsers         []string  `json:"-"`
}

// TenderRequest представляет структуру запроса для создания или обновления тендера.
type TenderRequest struct {
	ExternalRef       string    `json:"tenderRef"`
	Title             string    `json:"title" validate:"required"`
	Brief             string    `json:"brief"`
	Category          string    `json:"category" validate:"required"`
	ProcurementMethod string    `json:"procurementMethod"`
	ProcuringEntity   string    `json:"procuringEntity"`
	Country           string    `json:"country"`
	DocumentURL       string    `json:"documentUrl"`
	PublishedAt       time.Time `json:"publishedAt"`
	ClosesAt          time.Time `json:"closesAt" validate:"required"`
}

// TenderFilter описывает фильтры для выборки тендеров.
type TenderFilter struct {
	Title      string
	Categories []string
	Method     string
	Country    string
	StartDate  time.Time
	EndDate    time.Time
}

// TenderPage представляет страницу результатов выборки с метаданными пагинации.
type TenderPage struct {
	Tenders    []Tender `json:"tenders"`
	Total      int      `json:"total"`
	Page       int      `json:"page"`
	PageSize   int      `json:"pageSize"`
	TotalPages int      `json:"totalPages"`
}

// PaymentRequest представляет подтверждение оплаты от внешнего платёжного сервиса.
type PaymentRequest struct {
	TenderRef string `json:"tenderRef" validate:"required"`
	UserEmail string `json:"userEmail" validate:"required,email"`
}
