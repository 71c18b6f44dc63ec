package service

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func newPositionEmailFixture() *PositionEmailService {
	return NewPositionEmailService(newFakePositionEmailRepo(), testLogger())
}

// TestPositionEmailCreate — создание маппинга и конфликт по должности.
func TestPositionEmailCreate(t *testing.T) {
	svc := newPositionEmailFixture()

	pe, err := svc.Create(context.Background(), "  devops  ", " devops@staffstore.lan ")
	if err != nil {
		t.Fatalf("Ошибка создания маппинга: %v", err)
	}
	if pe.Position != "devops" || pe.Email != "devops@staffstore.lan" {
		t.Errorf("поля не обрезаны: %+v", pe)
	}

	if _, err := svc.Create(context.Background(), "devops", "other@staffstore.lan"); !errors.Is(err, ErrConflict) {
		t.Errorf("ожидалась ErrConflict, получена: %v", err)
	}
}

// TestPositionEmailCreate_Validation — пропущенные поля перечисляются
// совокупно, email проверяется на наличие @.
func TestPositionEmailCreate_Validation(t *testing.T) {
	svc := newPositionEmailFixture()

	_, err := svc.Create(context.Background(), "", "")
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("ожидалась ErrValidation, получена: %v", err)
	}
	if !strings.Contains(err.Error(), "position, email") {
		t.Errorf("оба поля должны быть перечислены: %v", err)
	}

	if _, err := svc.Create(context.Background(), "devops", "не-адрес"); !errors.Is(err, ErrValidation) {
		t.Errorf("ожидалась ErrValidation для email без @, получена: %v", err)
	}
}

// TestPositionEmailGetUpdateDelete — жизненный цикл маппинга по ключу должности.
func TestPositionEmailGetUpdateDelete(t *testing.T) {
	svc := newPositionEmailFixture()

	if _, err := svc.Create(context.Background(), "devops", "devops@staffstore.lan"); err != nil {
		t.Fatal(err)
	}

	pe, err := svc.Get(context.Background(), "devops")
	if err != nil {
		t.Fatalf("Ошибка получения маппинга: %v", err)
	}
	if pe.Email != "devops@staffstore.lan" {
		t.Errorf("неожиданный email: %s", pe.Email)
	}

	pe, err = svc.Update(context.Background(), "devops", "sre@staffstore.lan")
	if err != nil {
		t.Fatalf("Ошибка обновления маппинга: %v", err)
	}
	if pe.Email != "sre@staffstore.lan" {
		t.Errorf("email не обновлён: %s", pe.Email)
	}

	if _, err := svc.Update(context.Background(), "qa", "qa@staffstore.lan"); !errors.Is(err, ErrNotFound) {
		t.Errorf("ожидалась ErrNotFound, получена: %v", err)
	}

	if err := svc.Delete(context.Background(), "devops"); err != nil {
		t.Fatalf("Ошибка удаления маппинга: %v", err)
	}
	if _, err := svc.Get(context.Background(), "devops"); !errors.Is(err, ErrNotFound) {
		t.Errorf("маппинг не удалён: %v", err)
	}

	mappings, err := svc.List(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(mappings) != 0 {
		t.Errorf("ожидался пустой список, получено %d", len(mappings))
	}
}
