package chronicle

import (
	"context"
	"errors"
	"strings"
	"time"

	"nexus-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Service struct {
	DB *gorm.DB
}

type CreateEntryInput struct {
	ProfileID uuid.UUID
	Title     string         `json:"title"`
	Body      string         `json:"body"`
	EntryDate time.Time      `json:"entry_date"`
	PlaceID   *uuid.UUID     `json:"place_id"`
	Tags      datatypes.JSON `json:"tags"`
}

// CreateEntry adds a timeline event. A referenced place must belong to the
// same profile.
func (s *Service) CreateEntry(ctx context.Context, in CreateEntryInput) (*models.ChronicleEntry, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, errors.New("Entry title is required")
	}
	if in.EntryDate.IsZero() {
		return nil, errors.New("Entry date is required")
	}
	if in.PlaceID != nil {
		var place models.ChroniclePlace
		err := s.DB.WithContext(ctx).
			Where("place_id = ? AND profile_id = ?", *in.PlaceID, in.ProfileID).
			First(&place).Error
		if err == gorm.ErrRecordNotFound {
			return nil, errors.New("Place not found")
		} else if err != nil {
			return nil, err
		}
	}

	entry := &models.ChronicleEntry{
		ProfileID: in.ProfileID,
		Title:     strings.TrimSpace(in.Title),
		Body:      in.Body,
		EntryDate: in.EntryDate,
		PlaceID:   in.PlaceID,
		Tags:      in.Tags,
	}
	if err := s.DB.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

// ListEntries returns a profile's timeline, newest first.
func (s *Service) ListEntries(ctx context.Context, profileID uuid.UUID) ([]models.ChronicleEntry, error) {
	var entries []models.ChronicleEntry
	err := s.DB.WithContext(ctx).
		Where("profile_id = ?", profileID).
		Order("entry_date DESC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// UpdateEntry updates allowed fields on one of the profile's entries.
func (s *Service) UpdateEntry(ctx context.Context, profileID, entryID uuid.UUID, fields map[string]interface{}) (*models.ChronicleEntry, error) {
	if len(fields) == 0 {
		return nil, errors.New("Missing update fields")
	}
	allowed := map[string]bool{
		"title": true, "body": true, "entry_date": true, "place_id": true, "tags": true,
	}
	upd := make(map[string]interface{})
	for k, v := range fields {
		if !allowed[k] {
			continue
		}
		upd[k] = v
	}
	if len(upd) == 0 {
		return nil, errors.New("No valid update fields provided")
	}
	if t, ok := upd["title"].(string); ok && strings.TrimSpace(t) == "" {
		return nil, errors.New("Entry title must be a non-empty string")
	}

	result := s.DB.WithContext(ctx).Model(&models.ChronicleEntry{}).
		Where("entry_id = ? AND profile_id = ?", entryID, profileID).
		Updates(upd)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, errors.New("Entry not found")
	}

	var entry models.ChronicleEntry
	if err := s.DB.WithContext(ctx).Where("entry_id = ?", entryID).First(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

// RemoveEntry soft-deletes one of the profile's entries.
func (s *Service) RemoveEntry(ctx context.Context, profileID, entryID uuid.UUID) error {
	result := s.DB.WithContext(ctx).
		Where("entry_id = ? AND profile_id = ?", entryID, profileID).
		Delete(&models.ChronicleEntry{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.New("Entry not found")
	}
	return nil
}

type CreatePlaceInput struct {
	ProfileID uuid.UUID
	Name      string `json:"name"`
	City      string `json:"city"`
	Country   string `json:"country"`
}

func (s *Service) CreatePlace(ctx context.Context, in CreatePlaceInput) (*models.ChroniclePlace, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, errors.New("Place name is required")
	}
	place := &models.ChroniclePlace{
		ProfileID: in.ProfileID,
		Name:      strings.TrimSpace(in.Name),
		City:      strings.TrimSpace(in.City),
		Country:   strings.TrimSpace(in.Country),
	}
	if err := s.DB.WithContext(ctx).Create(place).Error; err != nil {
		return nil, err
	}
	return place, nil
}

func (s *Service) ListPlaces(ctx context.Context, profileID uuid.UUID) ([]models.ChroniclePlace, error) {
	var places []models.ChroniclePlace
	err := s.DB.WithContext(ctx).
		Where("profile_id = ?", profileID).
		Order("name ASC").
		Find(&places).Error
	if err != nil {
		return nil, err
	}
	return places, nil
}

type CreateWorkEntryInput struct {
	ProfileID     uuid.UUID
	Company       string     `json:"company"`
	Title         string     `json:"title"`
	StartDate     time.Time  `json:"start_date"`
	EndDate       *time.Time `json:"end_date"`
	Summary       string     `json:"summary"`
	ChronicleNote string     `json:"chronicle_note"`
}

func (s *Service) CreateWorkEntry(ctx context.Context, in CreateWorkEntryInput) (*models.WorkEntry, error) {
	if strings.TrimSpace(in.Company) == "" {
		return nil, errors.New("Company is required")
	}
	if strings.TrimSpace(in.Title) == "" {
		return nil, errors.New("Title is required")
	}
	if in.StartDate.IsZero() {
		return nil, errors.New("Start date is required")
	}
	if in.EndDate != nil && in.EndDate.Before(in.StartDate) {
		return nil, errors.New("End date must not be before start date")
	}

	entry := &models.WorkEntry{
		ProfileID:     in.ProfileID,
		Company:       strings.TrimSpace(in.Company),
		Title:         strings.TrimSpace(in.Title),
		StartDate:     in.StartDate,
		EndDate:       in.EndDate,
		Summary:       in.Summary,
		ChronicleNote: in.ChronicleNote,
	}
	if err := s.DB.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *Service) ListWorkEntries(ctx context.Context, profileID uuid.UUID) ([]models.WorkEntry, error) {
	var entries []models.WorkEntry
	err := s.DB.WithContext(ctx).
		Where("profile_id = ?", profileID).
		Order("start_date DESC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// UpdateWorkEntry updates allowed fields, including the chronicle_note annotation.
func (s *Service) UpdateWorkEntry(ctx context.Context, profileID, workEntryID uuid.UUID, fields map[string]interface{}) (*models.WorkEntry, error) {
	if len(fields) == 0 {
		return nil, errors.New("Missing update fields")
	}
	allowed := map[string]bool{
		"company": true, "title": true, "start_date": true, "end_date": true,
		"summary": true, "chronicle_note": true,
	}
	upd := make(map[string]interface{})
	for k, v := range fields {
		if !allowed[k] {
			continue
		}
		upd[k] = v
	}
	if len(upd) == 0 {
		return nil, errors.New("No valid update fields provided")
	}

	result := s.DB.WithContext(ctx).Model(&models.WorkEntry{}).
		Where("work_entry_id = ? AND profile_id = ?", workEntryID, profileID).
		Updates(upd)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, errors.New("Work entry not found")
	}

	var entry models.WorkEntry
	if err := s.DB.WithContext(ctx).Where("work_entry_id = ?", workEntryID).First(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}
