// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"database/sql"
	"time"
)

type Admin struct {
	ID           int64
	Username     string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type News struct {
	ID        int64
	Title     string
	Content   string
	Category  string
	ImageUrl  sql.NullString
	Location  sql.NullString
	Published bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Message struct {
	ID        int64
	Name      string
	Email     string
	Phone     sql.NullString
	Subject   string
	Message   string
	IsRead    bool
	CreatedAt time.Time
}

type Membership struct {
	ID            int64
	FullName      string
	Email         string
	Phone         string
	University    string
	Major         string
	AcademicLevel string
	Wilaya        string
	Status        string
	CreatedAt     time.Time
}

type PageSection struct {
	ID           int64
	PageName     string
	SectionID    string
	SectionTitle sql.NullString
	Content      string
	ContentType  string
	DisplayOrder int64
	UpdatedAt    time.Time
}

type HeroSlide struct {
	ID           int64
	Title        sql.NullString
	Subtitle     sql.NullString
	ImageUrl     string
	LinkUrl      sql.NullString
	LinkText     sql.NullString
	DisplayOrder int64
	IsActive     bool
	CreatedAt    time.Time
}

type Specialty struct {
	ID           int64
	Name         string
	NameAr       string
	Icon         string
	Description  sql.NullString
	ImageUrl     sql.NullString
	VideoUrl     sql.NullString
	VideoType    sql.NullString
	Items        string
	Duration     sql.NullString
	DisplayOrder int64
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Event struct {
	ID        int64
	Level     string
	Category  string
	Message   string
	AdminID   sql.NullInt64
	Metadata  string
	IpAddress string
	CreatedAt time.Time
}
