package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"oncocare/internal/app"
	"oncocare/internal/domain"
)

func TestContactService_Send(t *testing.T) {
	store := newMockStore()
	clock := &fakeClock{t: time.Date(2026, 10, 18, 14, 0, 0, 0, time.UTC)}
	svc := app.NewContactService(store, app.WithClock(clock.Now))
	ctx := app.WithScope(context.Background(), "user:7")

	msg, err := svc.Send(ctx, domain.ContactInput{Name: " Ayşe ", Email: "ayse@example.com", Message: " Randevu "})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if msg.ID == "" || msg.Name != "Ayşe" || msg.Message != "Randevu" || !msg.SentAt.Equal(clock.t) {
		t.Fatalf("unexpected message %+v", msg)
	}
	if _, ok := store.data["user:7/"+domain.ContactMessagesKey]; !ok {
		t.Fatalf("message not stored under the patient's scope: %v", store.data)
	}
}

func TestContactService_ValidationWritesNothing(t *testing.T) {
	store := newMockStore()
	svc := app.NewContactService(store)

	_, err := svc.Send(context.Background(), domain.ContactInput{Name: "Ayşe", Email: "ayse", Message: "x"})
	if !errors.Is(err, domain.ErrInvalidEmail) {
		t.Fatalf("expected ErrInvalidEmail, got %v", err)
	}
	if store.sets != 0 {
		t.Fatal("rejected message was stored")
	}
}

func TestContactService_StorageErrorIsReturned(t *testing.T) {
	store := newMockStore()
	store.setFn = func(context.Context, string, string) error { return errors.New("disk full") }
	svc := app.NewContactService(store)

	_, err := svc.Send(context.Background(), domain.ContactInput{Name: "Ayşe", Email: "a@b", Message: "x"})
	if err == nil {
		t.Fatal("a lost message must be reported")
	}
}

func TestContactService_LatencyHonoursContext(t *testing.T) {
	svc := app.NewContactService(newMockStore(), app.WithSimulatedLatency(time.Hour))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Send(ctx, domain.ContactInput{Name: "Ayşe", Email: "a@b", Message: "x"})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestExpertService_AskAndList(t *testing.T) {
	store := newMockStore()
	clock := &fakeClock{t: time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)}
	svc := app.NewExpertService(store, app.WithClock(clock.Now))
	ctx := context.Background()

	if list, err := svc.Questions(ctx); err != nil || len(list) != 0 || list == nil {
		t.Fatalf("Questions() = %#v, %v; want empty list", list, err)
	}

	if _, err := svc.Ask(ctx, domain.QuestionInput{Category: "Beslenme ve Diyet", Question: "Greyfurt yiyebilir miyim?"}); err != nil {
		t.Fatalf("Ask: %v", err)
	}
	clock.t = clock.t.Add(time.Hour)
	second, err := svc.Ask(ctx, domain.QuestionInput{Category: "Diğer", Question: "Aşı olabilir miyim acaba?"})
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}

	list, err := svc.Questions(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 || list[0].ID != second.ID {
		t.Fatalf("expected newest first, got %+v", list)
	}

	if _, err := svc.Ask(ctx, domain.QuestionInput{Category: "Diğer", Question: "kısa"}); !errors.Is(err, domain.ErrQuestionTooShort) {
		t.Fatalf("expected ErrQuestionTooShort, got %v", err)
	}
}

func TestExpertService_ReadErrorDoesNotClobber(t *testing.T) {
	store := newMockStore()
	store.getFn = func(context.Context, string) (string, bool, error) { return "", false, errors.New("io") }
	svc := app.NewExpertService(store)

	_, err := svc.Ask(context.Background(), domain.QuestionInput{Category: "Diğer", Question: "Aşı olabilir miyim?"})
	if err == nil {
		t.Fatal("expected the read error")
	}
	if store.sets != 0 {
		t.Fatal("list was overwritten after a failed read")
	}
}
