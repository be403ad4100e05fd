package api

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rohitid33/sprint-rail/internal/domain"
	"github.com/rohitid33/sprint-rail/internal/service"
	"github.com/rohitid33/sprint-rail/internal/store"
)

func scheduledCard(topic string, stage int, next time.Time) *domain.Card {
	card := testCard(topic, "a fact")
	card.Schedule = domain.ReviewSchedule{Stage: stage, NextReview: &next}
	return card
}

func TestReviewTopicResponseShape(t *testing.T) {
	next := time.Now().Add(24 * time.Hour)
	stub := &stubReviewService{cards: []*domain.Card{
		scheduledCard("osmosis", 2, next),
		scheduledCard("osmosis", 2, next.Add(time.Hour)),
	}}
	h := NewReviewHandler(stub, nil)

	rec := serve(t, http.MethodPost, "/api/topics/{topic}/review",
		http.HandlerFunc(h.ReviewTopic), "/api/topics/osmosis/review",
		`{"success":true,"performance":0.8}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "osmosis", stub.gotTopic)
	assert.True(t, stub.gotSuccess)
	assert.InDelta(t, 0.8, stub.gotPerformance, 1e-9)

	var resp TopicReviewResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.CardCount)
	assert.Equal(t, 2, resp.Stage)
	require.NotNil(t, resp.NextReview)
	assert.WithinDuration(t, next, *resp.NextReview, time.Second)
}

func TestReviewTopicAcceptsAnyPerformanceScore(t *testing.T) {
	stub := &stubReviewService{cards: []*domain.Card{testCard("osmosis", "a fact")}}
	h := NewReviewHandler(stub, nil)

	// Callers send whatever scale they use, e.g. percent correct.
	rec := serve(t, http.MethodPost, "/api/topics/{topic}/review",
		http.HandlerFunc(h.ReviewTopic), "/api/topics/osmosis/review",
		`{"success":true,"performance":85}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.InDelta(t, 85, stub.gotPerformance, 1e-9)
}

func TestReviewTopicMissingSuccess(t *testing.T) {
	h := NewReviewHandler(&stubReviewService{}, nil)

	rec := serve(t, http.MethodPost, "/api/topics/{topic}/review",
		http.HandlerFunc(h.ReviewTopic), "/api/topics/osmosis/review",
		`{"performance":0.8}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReviewTopicUnknownTopic(t *testing.T) {
	h := NewReviewHandler(&stubReviewService{err: store.ErrTopicNotFound}, nil)

	rec := serve(t, http.MethodPost, "/api/topics/{topic}/review",
		http.HandlerFunc(h.ReviewTopic), "/api/topics/missing/review",
		`{"success":false}`)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReviewCardLegacy(t *testing.T) {
	next := time.Now().Add(72 * time.Hour)
	card := testCard("osmosis", "a fact")
	card.NextReview = &next
	stub := &stubReviewService{card: card}
	h := NewReviewHandler(stub, nil)

	rec := serve(t, http.MethodPatch, "/api/cards/{cardID}/review",
		http.HandlerFunc(h.ReviewCard),
		"/api/cards/"+card.ID.String()+"/review", `{"remembered":true}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, stub.gotRemembered)

	var resp ReviewResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.WithinDuration(t, next, resp.NextReview, time.Second)
}

func TestReviewCardMissingRemembered(t *testing.T) {
	h := NewReviewHandler(&stubReviewService{}, nil)

	rec := serve(t, http.MethodPatch, "/api/cards/{cardID}/review",
		http.HandlerFunc(h.ReviewCard),
		"/api/cards/"+uuid.New().String()+"/review", `{}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReviewCardByHistory(t *testing.T) {
	card := testCard("osmosis", "a fact")
	stub := &stubReviewService{card: card}
	h := NewReviewHandler(stub, nil)

	rec := serve(t, http.MethodPost, "/api/card-review/{cardID}",
		http.HandlerFunc(h.ReviewCardByHistory),
		"/api/card-review/"+card.ID.String(), `{"remembered":false}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, stub.gotRemembered)
}

func TestDueTodayGroupedByTopic(t *testing.T) {
	now := time.Now()
	stub := &stubReviewService{grouped: map[string][]*domain.Card{
		"osmosis":   {scheduledCard("osmosis", 1, now)},
		"diffusion": {scheduledCard("diffusion", 2, now)},
	}}
	h := NewReviewHandler(stub, nil)

	rec := serve(t, http.MethodGet, "/api/review-tasks",
		http.HandlerFunc(h.DueToday), "/api/review-tasks", "")

	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string][]*domain.Card
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp, 2)
	assert.Len(t, resp["osmosis"], 1)
	assert.Len(t, resp["diffusion"], 1)
}

func TestPerformanceResponse(t *testing.T) {
	accuracy := 0.75
	stub := &stubReviewService{perf: &service.TopicPerformance{
		Topic:     "osmosis",
		CardCount: 3,
		Total:     4,
		Correct:   3,
		Accuracy:  &accuracy,
	}}
	h := NewReviewHandler(stub, nil)

	pattern := "/api/subjects/{subject}/modules/{module}/chapters/{chapter}/sections/{section}/topics/{topic}/performance"
	target := "/api/subjects/biology/modules/cells/chapters/membranes/sections/transport/topics/osmosis/performance"
	rec := serve(t, http.MethodGet, pattern,
		http.HandlerFunc(h.Performance), target, "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.Path{
		Subject: "biology",
		Module:  "cells",
		Chapter: "membranes",
		Section: "transport",
		Topic:   "osmosis",
	}, stub.gotPath)

	var resp service.TopicPerformance
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 4, resp.Total)
	require.NotNil(t, resp.Accuracy)
	assert.InDelta(t, 0.75, *resp.Accuracy, 1e-9)
}

func TestGetBlanks(t *testing.T) {
	stub := &stubReviewService{blanks: []int{1, 3}}
	h := NewReviewHandler(stub, nil)

	rec := serve(t, http.MethodGet, "/api/cards/{cardID}/blanks",
		http.HandlerFunc(h.GetBlanks),
		"/api/cards/"+uuid.New().String()+"/blanks", "")

	require.Equal(t, http.StatusOK, rec.Code)

	var resp BlanksResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []int{1, 3}, resp.Blanks)
}

func TestUpdateBlanks(t *testing.T) {
	stub := &stubReviewService{rec: &domain.BlankRecord{
		Blanks: []int{2},
		Stats:  map[int]int{2: 1},
	}}
	h := NewReviewHandler(stub, nil)

	rec := serve(t, http.MethodPatch, "/api/cards/{cardID}/blanks",
		http.HandlerFunc(h.UpdateBlanks),
		"/api/cards/"+uuid.New().String()+"/blanks", `{"blanks":[2]}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []int{2}, stub.gotBlanks)

	var resp BlanksResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []int{2}, resp.Blanks)
	assert.Equal(t, map[int]int{2: 1}, resp.Stats)
}

func TestUpdateBlanksNegativeIndex(t *testing.T) {
	h := NewReviewHandler(&stubReviewService{}, nil)

	rec := serve(t, http.MethodPatch, "/api/cards/{cardID}/blanks",
		http.HandlerFunc(h.UpdateBlanks),
		"/api/cards/"+uuid.New().String()+"/blanks", `{"blanks":[-1]}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
