package models

import (
	"time"
)

// Document 待解析或待打印的文档，仅文件名有意义
type Document struct {
	Name string `json:"name"`
}

// ParseResult 解析结果
type ParseResult struct {
	FileName  string    `json:"fileName"`
	Extension string    `json:"extension"`
	Parser    string    `json:"parser"`
	Content   string    `json:"content"`
	ParsedAt  time.Time `json:"parsedAt"`
}

// PrintJob 打印任务
type PrintJob struct {
	ID         string         `json:"id"`
	Document   string         `json:"document"`
	FileID     string         `json:"fileId"`
	Size       int64          `json:"size"`
	Hash       string         `json:"hash,omitempty"`
	Status     PrintJobStatus `json:"status"`
	Error      string         `json:"error,omitempty"`
	CreatedAt  time.Time      `json:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt,omitempty"`
	FinishedAt time.Time      `json:"finishedAt,omitempty"`
}

type PrintJobStatus string

const (
	JobPending   PrintJobStatus = "pending"
	JobRunning   PrintJobStatus = "running"
	JobCompleted PrintJobStatus = "completed"
	// JobOffline 打印机已关闭，任务被跳过
	JobOffline PrintJobStatus = "offline"
	JobFailed  PrintJobStatus = "failed"
)

// Terminal reports whether no further transition will happen.
func (s PrintJobStatus) Terminal() bool {
	switch s {
	case JobCompleted, JobOffline, JobFailed:
		return true
	default:
		return false
	}
}
