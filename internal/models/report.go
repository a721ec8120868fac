package models

import (
	"fmt"
	"time"
)

// BenchmarkReport holds the four timings of one benchmark run.
type BenchmarkReport struct {
	ID                 string        `json:"id"`
	Records            int           `json:"records"`
	DocumentCRUD       time.Duration `json:"document_crud_ns"`
	RelationalCRUD     time.Duration `json:"relational_crud_ns"`
	DocumentExport     time.Duration `json:"document_export_ns"`
	RelationalExport   time.Duration `json:"relational_export_ns"`
	DeleteMode         string        `json:"delete_mode"`
	StartedAt          time.Time     `json:"started_at"`
	FinishedAt         time.Time     `json:"finished_at"`
	DocumentExportFile string        `json:"document_export_file"`
	RelationalFiles    []string      `json:"relational_export_files"`
}

// Lines renders the report as the four timing lines printed by the CLI.
func (r BenchmarkReport) Lines() []string {
	return []string{
		fmt.Sprintf("Mongo CRUD %d records took %v seconds.", r.Records, r.DocumentCRUD.Seconds()),
		fmt.Sprintf("Postgres CRUD %d records took %v seconds.", r.Records, r.RelationalCRUD.Seconds()),
		fmt.Sprintf("Exporting from Mongo took %v seconds.", r.DocumentExport.Seconds()),
		fmt.Sprintf("Exporting from Postgres took %v seconds.", r.RelationalExport.Seconds()),
	}
}
