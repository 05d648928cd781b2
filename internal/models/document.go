package models

import "io"

// UploadedFile is a named byte stream received with a request. The name is
// only used for suffix inspection.
type UploadedFile struct {
	Filename string
	Content  io.Reader
}

// Page is one unit of loader output: a PDF page or a JSON content record.
type Page struct {
	Content string
	Source  string
	Index   int // zero-based
}

// ChunkRecord is a bounded piece of a page used as the unit of retrieval.
type ChunkRecord struct {
	Content string `json:"content"`
	Source  string `json:"source"`
	Page    int    `json:"page"`
	ChunkID int    `json:"chunk_id"` // 1-based within the page
}

// AnswerMap maps each question to its answer, or to an error description
// when that single question failed.
type AnswerMap map[string]string
