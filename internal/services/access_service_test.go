package services

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/biddersportal/tender-backend/internal/models"
)

func newAccessFixture() (*fakeStore, *countingNotifier, *AccessService) {
	store := newFakeStore()
	store.tenders["T1"] = models.Tender{
		ExternalRef: "T1",
		Title:       "Road construction",
		Country:     "Kenya",
		DocumentURL: "https://files.example.com/t1.pdf",
		ClosesAt:    time.Now().Add(24 * time.Hour),
	}
	notifier := &countingNotifier{}
	svc := NewAccessService(store, store, notifier, testLogger())
	return store, notifier, svc
}

func TestDetailReadDeniedBeforePayment(t *testing.T) {
	_, _, svc := newAccessFixture()

	_, err := svc.AuthorizeDetailRead(context.Background(), "T1", "u1@x.com")
	if err == nil {
		t.Fatalf("expected access denied before payment")
	}
	if status := statusOf(t, err); status != http.StatusForbidden {
		t.Errorf("expected 403, got %d", status)
	}
}

func TestDetailReadAllowedAfterPayment(t *testing.T) {
	_, _, svc := newAccessFixture()

	if _, err := svc.RecordPayment(context.Background(), models.PaymentRequest{TenderRef: "T1", UserEmail: "u1@x.com"}); err != nil {
		t.Fatalf("RecordPayment error: %v", err)
	}

	tender, err := svc.AuthorizeDetailRead(context.Background(), "T1", "u1@x.com")
	if err != nil {
		t.Fatalf("expected access after payment, got %v", err)
	}
	if tender.DocumentURL == "" {
		t.Errorf("expected full record with document URL on detail read")
	}
}

func TestDetailReadDistinguishesNotFound(t *testing.T) {
	_, _, svc := newAccessFixture()

	_, err := svc.AuthorizeDetailRead(context.Background(), "missing", "u1@x.com")
	if err == nil {
		t.Fatalf("expected error")
	}
	if status := statusOf(t, err); status != http.StatusNotFound {
		t.Errorf("expected 404 for missing tender, got %d", status)
	}
}

func TestDetailReadRequiresEmail(t *testing.T) {
	_, _, svc := newAccessFixture()

	_, err := svc.AuthorizeDetailRead(context.Background(), "T1", "")
	if err == nil {
		t.Fatalf("expected error")
	}
	if status := statusOf(t, err); status != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", status)
	}
}

func TestRecordPaymentIsIdempotent(t *testing.T) {
	store, notifier, svc := newAccessFixture()

	req := models.PaymentRequest{TenderRef: "T1", UserEmail: "u1@x.com"}
	if _, err := svc.RecordPayment(context.Background(), req); err != nil {
		t.Fatalf("first RecordPayment: %v", err)
	}
	if _, err := svc.RecordPayment(context.Background(), req); err != nil {
		t.Fatalf("duplicate RecordPayment: %v", err)
	}

	paidUsers := store.tenders["T1"].PaidUsers
	if len(paidUsers) != 1 || paidUsers[0] != "u1@x.com" {
		t.Fatalf("expected paid users to contain u1@x.com exactly once, got %v", paidUsers)
	}
	if notifier.sent != 1 {
		t.Errorf("expected exactly one confirmation email, got %d", notifier.sent)
	}
}

func TestRecordPaymentSkipsEmailWhenAccessAlreadyGranted(t *testing.T) {
	store, notifier, svc := newAccessFixture()

	t1 := store.tenders["T1"]
	t1.PaidUsers = []string{"u1@x.com"}
	store.tenders["T1"] = t1

	tender, err := svc.RecordPayment(context.Background(), models.PaymentRequest{TenderRef: "T1", UserEmail: "u1@x.com"})
	if err != nil {
		t.Fatalf("RecordPayment error: %v", err)
	}
	if tender == nil || tender.ExternalRef != "T1" {
		t.Fatalf("expected tender T1 back, got %v", tender)
	}
	if notifier.sent != 0 {
		t.Errorf("confirmation email must be keyed to the grant, got %d emails", notifier.sent)
	}
}

func TestRecordPaymentUnknownTender(t *testing.T) {
	_, _, svc := newAccessFixture()

	_, err := svc.RecordPayment(context.Background(), models.PaymentRequest{TenderRef: "missing", UserEmail: "u1@x.com"})
	if err == nil {
		t.Fatalf("expected error")
	}
	if status := statusOf(t, err); status != http.StatusNotFound {
		t.Errorf("expected 404, got %d", status)
	}
}

func TestRecordPaymentRejectsBadPayload(t *testing.T) {
	_, _, svc := newAccessFixture()

	cases := []models.PaymentRequest{
		{TenderRef: "", UserEmail: "u1@x.com"},
		{TenderRef: "T1", UserEmail: ""},
		{TenderRef: "T1", UserEmail: "not-an-email"},
	}
	for _, req := range cases {
		_, err := svc.RecordPayment(context.Background(), req)
		if err == nil {
			t.Fatalf("expected validation error for %+v", req)
		}
		if status := statusOf(t, err); status != http.StatusBadRequest {
			t.Errorf("expected 400 for %+v, got %d", req, status)
		}
	}
}

func TestGetPurchasedTenders(t *testing.T) {
	store, _, svc := newAccessFixture()
	store.tenders["T2"] = models.Tender{ExternalRef: "T2", ClosesAt: time.Now().Add(time.Hour)}

	if _, err := svc.RecordPayment(context.Background(), models.PaymentRequest{TenderRef: "T1", UserEmail: "u1@x.com"}); err != nil {
		t.Fatalf("RecordPayment error: %v", err)
	}

	tenders, err := svc.GetPurchasedTenders(context.Background(), "u1@x.com")
	if err != nil {
		t.Fatalf("GetPurchasedTenders error: %v", err)
	}
	if len(tenders) != 1 || tenders[0].ExternalRef != "T1" {
		t.Fatalf("expected only purchased tender T1, got %v", tenders)
	}
}

func TestGetPurchasedTendersEmptyIsArray(t *testing.T) {
	_, _, svc := newAccessFixture()

	tenders, err := svc.GetPurchasedTenders(context.Background(), "nobody@x.com")
	if err != nil {
		t.Fatalf("GetPurchasedTenders error: %v", err)
	}
	if tenders == nil {
		t.Fatalf("empty purchase list must be an empty slice, not nil")
	}
	if len(tenders) != 0 {
		t.Errorf("expected no purchases, got %v", tenders)
	}
}
