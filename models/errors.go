package models

import "errors"

var (
	ErrNodeNotFound       = errors.New("node not found")
	ErrDuplicateNode      = errors.New("node already in document")
	ErrPortNotOwned       = errors.New("port does not belong to a node in the document")
	ErrInputOccupied      = errors.New("input does not accept more connections")
	ErrConnectionNotFound = errors.New("connection not found")
	ErrGroupNotFound      = errors.New("group not found")
)
