package services

import (
	"errors"
	"testing"

	"jornada/internal/models"

	"golang.org/x/crypto/bcrypt"
)

type authUserRepositoryStub struct {
	userCount int64
}

func (stub *authUserRepositoryStub) CountUsers() (int64, error) { return stub.userCount, nil }

func (stub *authUserRepositoryStub) ExistsByNormalizedEmail(string) (bool, error) {
	return false, nil
}

func (stub *authUserRepositoryStub) FindByNormalizedEmail(string) (models.User, error) {
	return models.User{}, nil
}

func (stub *authUserRepositoryStub) FindByID(uint) (models.User, error) {
	return models.User{}, nil
}

func (stub *authUserRepositoryStub) Create(*models.User) error { return nil }

func (stub *authUserRepositoryStub) List() ([]models.User, error) { return nil, nil }

func (stub *authUserRepositoryStub) ListByActive(bool) ([]models.User, error) { return nil, nil }

func (stub *authUserRepositoryStub) UpdatePassword(uint, string, bool) error { return nil }

func (stub *authUserRepositoryStub) UpdateByID(uint, map[string]any) error { return nil }

func TestFirstUserBecomesManagerOnlyOnEmptyStore(t *testing.T) {
	users := &authUserRepositoryStub{}
	service := NewAuthService(users)

	isFirst, err := service.FirstUserBecomesManager()
	if err != nil {
		t.Fatalf("FirstUserBecomesManager() unexpected error: %v", err)
	}
	if !isFirst {
		t.Fatalf("empty store must grant the manager role")
	}

	users.userCount = 1
	isFirst, err = service.FirstUserBecomesManager()
	if err != nil {
		t.Fatalf("FirstUserBecomesManager() unexpected error: %v", err)
	}
	if isFirst {
		t.Fatalf("second registration must not become manager")
	}
}

func TestValidatePasswordChange(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("CurrentPass1"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	service := NewAuthService(&authUserRepositoryStub{})

	testCases := []struct {
		name     string
		current  string
		next     string
		confirm  string
		wantErr  error
		wantWeak bool
	}{
		{name: "valid change", current: "CurrentPass1", next: "FreshPass2", confirm: "FreshPass2"},
		{name: "trims surrounding spaces", current: " CurrentPass1 ", next: " FreshPass2 ", confirm: " FreshPass2 "},
		{name: "empty current", current: "", next: "FreshPass2", confirm: "FreshPass2", wantErr: ErrPasswordChangeInvalidInput},
		{name: "empty confirmation", current: "CurrentPass1", next: "FreshPass2", confirm: "", wantErr: ErrPasswordChangeInvalidInput},
		{name: "confirmation mismatch", current: "CurrentPass1", next: "FreshPass2", confirm: "FreshPass3", wantErr: ErrPasswordMismatch},
		{name: "wrong current password", current: "WrongPass1", next: "FreshPass2", confirm: "FreshPass2", wantErr: ErrInvalidCurrentPassword},
		{name: "new equals current", current: "CurrentPass1", next: "CurrentPass1", confirm: "CurrentPass1", wantErr: ErrNewPasswordMustDiffer},
		{name: "weak replacement", current: "CurrentPass1", next: "weakpass", confirm: "weakpass", wantWeak: true},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			err := service.ValidatePasswordChange(string(hash), testCase.current, testCase.next, testCase.confirm)
			if testCase.wantWeak {
				if !errors.Is(err, ErrWeakPassword) {
					t.Fatalf("ValidatePasswordChange() error = %v, want ErrWeakPassword", err)
				}
				return
			}
			if testCase.wantErr != nil {
				if !errors.Is(err, testCase.wantErr) {
					t.Fatalf("ValidatePasswordChange() error = %v, want %v", err, testCase.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ValidatePasswordChange() unexpected error: %v", err)
			}
		})
	}
}
