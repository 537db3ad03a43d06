package common

const (
	// TileSize is the edge length of one level tile and one path cell, in pixels.
	TileSize = 16
)
