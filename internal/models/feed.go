package models

import "encoding/json"

// FeedEntry представляет одну запись тендера в том виде, в котором её отдаёт внешний фид.
// Имена полей исторические и не совпадают с канонической моделью.
type FeedEntry struct {
	BDRNo           json.Number `json:"BDR_No"`
	TenderRef       string      `json:"tender_ref"`
	TenderBrief     string      `json:"Tender_Brief"`
	TenderCategory  string      `json:"Tender_Category"`
	CompetitionType string      `json:"CompetitionType"`
	ProcuringEntity string      `json:"Pe"`
	Country         string      `json:"Country"`
	PublishedAt     string      `json:"Published_at"`
	TenderExpiry    string      `json:"Tender_Expiry"`
	FileURL         string      `json:"FileUrl"`
	AddendumAdded   string      `json:"addendum_added"`
}

// FeedDetailGroup - группа записей во вложенной форме ответа фида.
// Записи остаются сырыми: клиент разбирает каждую отдельно, чтобы одна
// битая запись не прерывала разбор всей группы.
type FeedDetailGroup struct {
	TenderLists []json.RawMessage `json:"TenderLists"`
}

// FeedResponse - вложенная форма ответа фида: код статуса и список групп.
type FeedResponse struct {
	Status        int               `json:"Status"`
	TenderDetails []FeedDetailGroup `json:"TenderDetails"`
}
