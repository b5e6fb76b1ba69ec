package main

import (
	"time"

	"gorm.io/datatypes"
)

// --- Students ---

type Student struct {
	ID         uint   `gorm:"primaryKey"`
	Name       string `gorm:"not null"`
	ClassName  string `gorm:"not null;index"`
	AccessCode string `gorm:"uniqueIndex;size:16;not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// --- Question bank ---

type Question struct {
	ID            uint           `gorm:"primaryKey"`
	ClassName     string         `gorm:"not null;index:idx_bank,priority:1"`
	Subject       string         `gorm:"not null;index:idx_bank,priority:2"`
	Text          string         `gorm:"not null"`
	Options       datatypes.JSON `gorm:"not null"` // ["a","b",...]
	CorrectAnswer string         `gorm:"not null"`
	Position      int            `gorm:"not null"` // order inside the uploaded batch
	CreatedAt     time.Time
}

// --- Results ---

type Submission struct {
	ID          uint           `gorm:"primaryKey"`
	StudentID   uint           `gorm:"index:idx_sub_student_subject,priority:1;not null"`
	Student     Student        `gorm:"constraint:OnDelete:CASCADE"`
	Subject     string         `gorm:"index:idx_sub_student_subject,priority:2;not null"`
	SessionID   string         `gorm:"uniqueIndex;size:36;not null"`
	StudentName string         `gorm:"not null"` // display cache, as at submission time
	ClassName   string         `gorm:"not null"`
	Score       int            `gorm:"not null"`
	Total       int            `gorm:"not null"`
	Percentage  float64        `gorm:"not null"`
	Answers     datatypes.JSON `gorm:"not null"` // {"Q1": "Paris", "Q2": "No Answer"}
	TimedOut    bool           `gorm:"not null;default:false"`
	CreatedAt   time.Time      `gorm:"index"`
}

type RetakeGrant struct {
	ID         uint   `gorm:"primaryKey"`
	AccessCode string `gorm:"uniqueIndex:uq_retake,priority:1;size:16;not null"`
	Subject    string `gorm:"uniqueIndex:uq_retake,priority:2;not null"`
	Allowed    int    `gorm:"not null;default:0"`
	UpdatedAt  time.Time
}

// --- Settings & admins ---

type Setting struct {
	ID    uint   `gorm:"primaryKey"`
	Key   string `gorm:"uniqueIndex;size:64;not null"`
	Value string `gorm:"not null"`
}

type Admin struct {
	ID           uint   `gorm:"primaryKey"`
	Username     string `gorm:"uniqueIndex;size:64;not null"`
	PasswordHash string `gorm:"not null"`
	Role         string `gorm:"size:16;not null;default:admin"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
