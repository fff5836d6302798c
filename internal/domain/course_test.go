package domain

import (
	"encoding/json"
	"errors"
	"testing"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCourse(t *testing.T) {
	desc := "Intro to algebra"
	raw := RawCourse{ID: "1001", Name: "Algebra", Description: &desc, OwnerID: "2002"}

	course, err := NewCourse(raw, nil)
	require.NoError(t, err)
	assert.Equal(t, "1001", course.ID.String())
	assert.Equal(t, "2002", course.Teacher.String())
	assert.Equal(t, "Algebra", course.Name)
	assert.Equal(t, desc, course.Description)
	assert.NotNil(t, course.Work)
	assert.Empty(t, course.Work)
}

func TestNewCourse_DefaultsDescription(t *testing.T) {
	course, err := NewCourse(RawCourse{ID: "1", Name: "Art", OwnerID: "2"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "", course.Description)
}

func TestNewCourse_MissingFields(t *testing.T) {
	tests := []struct {
		name  string
		raw   RawCourse
		field string
	}{
		{name: "id", raw: RawCourse{Name: "Art", OwnerID: "2"}, field: "id"},
		{name: "name", raw: RawCourse{ID: "1", OwnerID: "2"}, field: "name"},
		{name: "owner", raw: RawCourse{ID: "1", Name: "Art"}, field: "ownerId"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCourse(tt.raw, nil)
			require.Error(t, err)

			var missing *MissingFieldError
			require.True(t, errors.As(err, &missing))
			assert.Equal(t, "course", missing.Record)
			assert.Equal(t, tt.field, missing.Field)
			assert.ErrorIs(t, err, ErrInvalidRecord)
		})
	}
}

func TestNewCourse_InvalidID(t *testing.T) {
	_, err := NewCourse(RawCourse{ID: "not-a-number", Name: "Art", OwnerID: "2"}, nil)

	var idErr *InvalidIDError
	require.True(t, errors.As(err, &idErr))
	assert.Equal(t, "not-a-number", idErr.Value)
}

func TestCourse_JSONShape(t *testing.T) {
	due := civil.Date{Year: 2024, Month: 5, Day: 10}
	course := Course{
		ID:      MustParseID("5"),
		Name:    "Chemistry",
		Teacher: MustParseID("9"),
		Work: []Work{
			{Link: "https://classroom.example/w/1", Title: "Quiz 1", Due: &due, Test: true},
			{Link: "https://classroom.example/w/2", Title: "Reading"},
		},
	}

	data, err := json.Marshal(course)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"id": 5,
		"name": "Chemistry",
		"description": "",
		"teacher": 9,
		"work": [
			{"link": "https://classroom.example/w/1", "title": "Quiz 1", "description": "", "due": "2024-05-10", "test": true},
			{"link": "https://classroom.example/w/2", "title": "Reading", "description": "", "due": null, "test": false}
		]
	}`, string(data))
}
