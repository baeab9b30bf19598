package service

import (
	"errors"
	"math"
	"testing"

	"apec_lms_backend/internal/config"
	"apec_lms_backend/internal/util"
)

func TestPriceInSOL(t *testing.T) {
	tests := []struct {
		name      string
		priceUSD  float64
		usdPerSOL float64
		want      float64
	}{
		{"100 USD at 200 per SOL", 100, 200, 0.5},
		{"whole SOL", 200, 200, 1},
		{"fractional", 50, 200, 0.25},
		{"free course", 0, 200, 0},
		{"negative price", -10, 200, 0},
		{"zero rate", 100, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := priceInSOL(tt.priceUSD, tt.usdPerSOL)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("priceInSOL(%v, %v) = %v, want %v", tt.priceUSD, tt.usdPerSOL, got, tt.want)
			}
		})
	}
}

func TestResolveCorrectAnswer(t *testing.T) {
	options := []string{"A pointer", "A slice", "A map"}

	tests := []struct {
		name    string
		req     QuizQuestionRequest
		want    int
		wantErr bool
	}{
		{
			name: "by index",
			req:  QuizQuestionRequest{Options: options, CorrectAnswer: intPtr(1)},
			want: 1,
		},
		{
			name: "by text",
			req:  QuizQuestionRequest{Options: options, CorrectAnswerText: "A map"},
			want: 2,
		},
		{
			name: "index wins over text",
			req:  QuizQuestionRequest{Options: options, CorrectAnswer: intPtr(0), CorrectAnswerText: "A map"},
			want: 0,
		},
		{
			name:    "index out of range",
			req:     QuizQuestionRequest{Options: options, CorrectAnswer: intPtr(3)},
			wantErr: true,
		},
		{
			name:    "negative index",
			req:     QuizQuestionRequest{Options: options, CorrectAnswer: intPtr(-1)},
			wantErr: true,
		},
		{
			name:    "text matches nothing",
			req:     QuizQuestionRequest{Options: options, CorrectAnswerText: "A channel"},
			wantErr: true,
		},
		{
			name:    "no answer given",
			req:     QuizQuestionRequest{Options: options},
			wantErr: true,
		},
		{
			name:    "no options",
			req:     QuizQuestionRequest{CorrectAnswer: intPtr(0)},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveCorrectAnswer(tt.req)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("resolveCorrectAnswer: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCreateCourseValidationErrors(t *testing.T) {
	s := NewCourseService(nil, &config.Config{
		Pricing: config.PricingConfig{USDPerSOL: 200},
	}, nil)

	tests := []struct {
		name string
		req  CreateCourseRequest
	}{
		{"missing title", CreateCourseRequest{Description: "desc"}},
		{"missing description", CreateCourseRequest{Title: "title"}},
		{
			name: "answer text matches no option",
			req: CreateCourseRequest{
				Title:       "title",
				Description: "desc",
				QuizQuestions: []QuizQuestionRequest{{
					Question:          "pick one",
					Options:           []string{"a", "b"},
					CorrectAnswerText: "c",
				}},
			},
		},
		{
			name: "answer index out of range",
			req: CreateCourseRequest{
				Title:       "title",
				Description: "desc",
				QuizQuestions: []QuizQuestionRequest{{
					Question:      "pick one",
					Options:       []string{"a", "b"},
					CorrectAnswer: intPtr(2),
				}},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.CreateCourse("educator-1", tt.req)
			if !errors.Is(err, util.ErrCourseValidation) {
				t.Errorf("err = %v, want ErrCourseValidation so the handler answers 400", err)
			}
		})
	}
}
