// Package model holds the entity types shared by the gateway, the action
// engine, and the renderer. Values are plain data; nothing here performs I/O.
package model

import "time"

// Server is a top-level community (a Discord guild).
type Server struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ChannelKind mirrors the remote channel type numbers.
type ChannelKind int

const (
	KindText         ChannelKind = 0
	KindDM           ChannelKind = 1
	KindVoice        ChannelKind = 2
	KindGroupDM      ChannelKind = 3
	KindCategory     ChannelKind = 4
	KindAnnouncement ChannelKind = 5
	KindStageVoice   ChannelKind = 13
	KindForum        ChannelKind = 15
)

// IsVoice reports whether the channel carries audio rather than text.
func (k ChannelKind) IsVoice() bool {
	return k == KindVoice || k == KindStageVoice
}

// OverwriteKind says whether an overwrite targets a role or a single member.
type OverwriteKind int

const (
	OverwriteRole   OverwriteKind = 0
	OverwriteMember OverwriteKind = 1
)

// Overwrite is a per-channel allow/deny pair. Bitmasks are kept as the
// strings the platform sends them as.
type Overwrite struct {
	SubjectID   string        `json:"id"`
	SubjectKind OverwriteKind `json:"type"`
	Allow       string        `json:"allow"`
	Deny        string        `json:"deny"`
}

// Channel is a conversable or grouping unit inside a server.
type Channel struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Kind       ChannelKind `json:"type"`
	ServerID   string      `json:"guild_id,omitempty"`
	Overwrites []Overwrite `json:"permission_overwrites,omitempty"`
}

// Role is a named permission grant.
type Role struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Permissions string `json:"permissions"`
}

// PermissionContext is everything the resolver needs to know about the
// current user inside one server.
type PermissionContext struct {
	UserID        string
	RoleIDs       []string
	Roles         []Role
	DefaultRoleID string
}

// Author identifies who wrote a message.
type Author struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// Message is one posted message. Lists of messages are kept newest first,
// the order the remote returns them in.
type Message struct {
	ID        string    `json:"id"`
	ChannelID string    `json:"channel_id"`
	Author    Author    `json:"author"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// MessageQuery selects a page of channel history. Empty cursors are ignored.
type MessageQuery struct {
	Before string
	After  string
	Around string
	Limit  int
}

// Emoji is a server's custom emoji.
type Emoji struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Animated bool   `json:"animated"`
}

// Markup returns the message syntax that renders this emoji.
func (e Emoji) Markup() string {
	if e.Animated {
		return "<a:" + e.Name + ":" + e.ID + ">"
	}
	return "<:" + e.Name + ":" + e.ID + ">"
}
