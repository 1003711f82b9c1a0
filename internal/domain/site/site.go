package site

import (
	"fmt"
	"time"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

func (s Status) IsValid() bool {
	return s == StatusActive || s == StatusInactive
}

// Site is a physical location owning its own ticket-numbering sequence.
type Site struct {
	id        uint
	name      string
	address   string
	status    Status
	createdAt time.Time
	updatedAt time.Time
}

func NewSite(name, address string) (*Site, error) {
	if len(name) == 0 {
		return nil, fmt.Errorf("site name is required")
	}
	if len(name) > 200 {
		return nil, fmt.Errorf("site name exceeds maximum length of 200 characters")
	}

	now := time.Now().UTC()
	return &Site{
		name:      name,
		address:   address,
		status:    StatusActive,
		createdAt: now,
		updatedAt: now,
	}, nil
}

func ReconstructSite(id uint, name, address string, status Status, createdAt, updatedAt time.Time) (*Site, error) {
	if id == 0 {
		return nil, fmt.Errorf("site ID cannot be zero")
	}
	if len(name) == 0 {
		return nil, fmt.Errorf("site name is required")
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid site status")
	}
	return &Site{
		id:        id,
		name:      name,
		address:   address,
		status:    status,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}, nil
}

func (s *Site) ID() uint {
	return s.id
}

func (s *Site) Name() string {
	return s.name
}

func (s *Site) Address() string {
	return s.address
}

func (s *Site) Status() Status {
	return s.status
}

func (s *Site) CreatedAt() time.Time {
	return s.createdAt
}

func (s *Site) UpdatedAt() time.Time {
	return s.updatedAt
}

func (s *Site) SetID(id uint) error {
	if s.id != 0 {
		return fmt.Errorf("site ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("site ID cannot be zero")
	}
	s.id = id
	return nil
}

func (s *Site) Deactivate() {
	s.status = StatusInactive
	s.updatedAt = time.Now().UTC()
}
