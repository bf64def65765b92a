package service

import (
	"context"
	"time"

	"schuldenfrei/internal/domain"
	"schuldenfrei/internal/letter"
	"schuldenfrei/internal/logger"
)

type AgreementService struct {
	debts      DebtRepository
	agreements AgreementRepository
	log        *logger.Logger
	now        func() time.Time
}

func NewAgreementService(debts DebtRepository, agreements AgreementRepository, log *logger.Logger) *AgreementService {
	return &AgreementService{
		debts:      debts,
		agreements: agreements,
		log:        log.WithComponent("agreements"),
		now:        time.Now,
	}
}

func (s *AgreementService) List(ctx context.Context, userID string, debtID *string) ([]domain.Agreement, error) {
	return s.agreements.List(ctx, userID, debtID)
}

func (s *AgreementService) Templates() []letter.Template {
	return letter.Templates()
}

type CreateAgreementInput struct {
	TemplateID string      `json:"template_id"`
	DebtID     *string     `json:"debt_id"`
	Form       letter.Form `json:"form"`
}

type AgreementResult struct {
	Agreement *domain.Agreement `json:"agreement"`
	Letter    *letter.Letter    `json:"letter"`
	Text      string            `json:"text"`
}

// Create composes the letter and keeps its body as an agreement. When a debt
// is given, empty creditor fields are filled from it.
func (s *AgreementService) Create(ctx context.Context, userID string, in CreateAgreementInput) (*AgreementResult, error) {
	form := in.Form
	if in.DebtID != nil && *in.DebtID != "" {
		d, err := s.debts.Get(ctx, userID, *in.DebtID)
		if err != nil {
			return nil, err
		}
		form = mergeForm(form, letter.Prefill(*d))
	}

	l, err := letter.Compose(in.TemplateID, form, s.now())
	if err != nil {
		return nil, err
	}

	a, err := s.agreements.Create(ctx, userID, domain.AgreementInsert{
		DebtID:  in.DebtID,
		Type:    in.TemplateID,
		Content: l.Body,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("agreement saved", "user_id", userID, "type", in.TemplateID)
	return &AgreementResult{Agreement: a, Letter: l, Text: l.PlainText()}, nil
}

// Render lays out a letter for printing.
func (s *AgreementService) Render(doc letter.Document) ([]byte, error) {
	if doc.LetterDate == "" {
		doc.LetterDate = letter.LongDate(s.now())
	}
	return letter.RenderHTML(doc)
}

func mergeForm(f, prefill letter.Form) letter.Form {
	fill := func(dst *string, v string) {
		if *dst == "" {
			*dst = v
		}
	}
	fill(&f.Creditor, prefill.Creditor)
	fill(&f.CreditorStreet, prefill.CreditorStreet)
	fill(&f.CreditorZip, prefill.CreditorZip)
	fill(&f.CreditorCity, prefill.CreditorCity)
	fill(&f.Amount, prefill.Amount)
	fill(&f.Rate, prefill.Rate)
	return f
}
