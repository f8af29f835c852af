// Package domain contains entities without logic, just meta-data.
package domain

import "errors"

type RoomID string

// MaxRoomSize caps how many participants a single room admits.
const MaxRoomSize = 2

var ErrRoomFull = errors.New("room full")
