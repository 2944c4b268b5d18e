package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"cargue/internal"
	"cargue/internal/config"
	"cargue/internal/output"
	"cargue/internal/storage"
)

type ProcessingService struct {
	db    *storage.DB
	store Lookup
	cfg   config.Config
	log   *zap.Logger
}

func NewProcessingService(db *storage.DB, store Lookup, cfg config.Config, log *zap.Logger) *ProcessingService {
	return &ProcessingService{db: db, store: store, cfg: cfg, log: log}
}

type GeneratedFile struct {
	Kind     string
	Path     string
	Warnings []string
}

type ProcessResult struct {
	BatchID int64
	Counts  internal.BatchCounts
	Errors  []internal.ValidationError
	Files   []GeneratedFile
}

// ProcessFile runs the full pipeline over one workbook: extraction,
// classification, routing, validation, reconciliation and file
// generation. Validation errors stop generation but are a normal
// outcome, reported in the result rather than as an error.
func (s *ProcessingService) ProcessFile(ctx context.Context, path string) (ProcessResult, error) {
	start := time.Now()

	ex, err := ExtractWorkbook(path)
	if err != nil {
		return ProcessResult{}, err
	}

	batchID, err := s.db.InsertBatch(path, ex.Sheet, ex.HeaderRow, s.cfg.Circuito)
	if err != nil {
		return ProcessResult{}, err
	}
	result := ProcessResult{BatchID: batchID}

	records := BuildRecords(ex)
	for _, r := range records {
		Classify(r)
	}

	newRecords, decoms := Route(records)
	result.Counts.Total = len(records)
	result.Counts.New = len(newRecords)
	result.Counts.Decommission = len(decoms)
	for _, d := range decoms {
		if d.Replacement {
			result.Counts.Replacement++
		}
	}

	validator := NewValidator(ex.Sheet, s.cfg.InServiceYearMin)
	result.Errors = validator.Run(newRecords, decoms)
	result.Counts.ValidationErrs = len(result.Errors)

	if len(result.Errors) > 0 {
		s.log.Warn("validation failed, no load files generated",
			zap.Int64("batch", batchID), zap.Int("errores", len(result.Errors)))
		if err := s.db.InsertValidationErrors(batchID, result.Errors); err != nil {
			return result, err
		}
		if s.cfg.ReviewExport {
			if file, err := s.writeReview(records, result.Errors); err != nil {
				s.log.Warn("review export failed", zap.Error(err))
			} else {
				result.Files = append(result.Files, file)
				_ = s.db.InsertGeneratedFile(batchID, file.Kind, file.Path, nil)
			}
		}
		_ = s.db.SetBatchCounts(batchID, result.Counts)
		if err := s.db.UpdateBatchStatus(batchID, internal.BatchError, fmt.Sprintf("%d errores de validacion", len(result.Errors))); err != nil {
			return result, err
		}
		return result, nil
	}

	rc := NewReconciler(s.store, s.log)
	dCounts := rc.Decommissions(ctx, decoms)
	nCounts := rc.NewRecords(ctx, newRecords)
	result.Counts.Reconciled = dCounts.Reconciled + nCounts.Reconciled
	result.Counts.MergedFields = dCounts.MergedFields + nCounts.MergedFields

	for _, r := range records {
		FinalizeForLoad(r)
	}

	files, err := s.writeLoadFiles(newRecords, decoms)
	if err != nil {
		_ = s.db.UpdateBatchStatus(batchID, internal.BatchFailed, err.Error())
		return result, err
	}
	if s.cfg.ReviewExport {
		if file, err := s.writeReview(records, nil); err != nil {
			s.log.Warn("review export failed", zap.Error(err))
		} else {
			files = append(files, file)
		}
	}
	result.Files = files

	for _, file := range files {
		if err := s.db.InsertGeneratedFile(batchID, file.Kind, file.Path, file.Warnings); err != nil {
			return result, err
		}
		for _, w := range file.Warnings {
			s.log.Warn("load file arity mismatch", zap.String("kind", file.Kind), zap.String("detalle", w))
		}
		if strings.HasSuffix(file.Path, ".txt") {
			if sum, err := output.Summarize(file.Path); err == nil {
				s.log.Info("load file ready",
					zap.String("kind", file.Kind),
					zap.Int("registros", sum.Records),
					zap.Int("campos", sum.Fields),
					zap.Int64("bytes", sum.Size))
			}
		}
	}

	_ = s.db.SetBatchCounts(batchID, result.Counts)
	if err := s.db.UpdateBatchStatus(batchID, internal.BatchProcessed, ""); err != nil {
		return result, err
	}
	_ = s.db.SetMetadata("ultimo_archivo", path)
	_ = s.db.SetMetadata("ultima_corrida", time.Now().Format(time.RFC3339))

	s.log.Info("batch processed",
		zap.Int64("batch", batchID),
		zap.String("hoja", ex.Sheet),
		zap.Int("total", result.Counts.Total),
		zap.Int("nuevos", result.Counts.New),
		zap.Int("bajas", result.Counts.Decommission),
		zap.Duration("duracion", time.Since(start)))

	return result, nil
}

func (s *ProcessingService) writeLoadFiles(newRecords []*internal.Record, decoms []*internal.Decommission) ([]GeneratedFile, error) {
	now := time.Now()
	var files []GeneratedFile

	if len(newRecords) > 0 {
		path, err := output.NextFileName(s.cfg.OutputDir, "nuevos", "txt", now)
		if err != nil {
			return nil, err
		}
		rows := make([][]string, 0, len(newRecords))
		for _, r := range newRecords {
			rows = append(rows, output.NewAssetRow(r))
		}
		warnings, err := output.WriteTXT(path, output.NewAssetColumns, rows)
		if err != nil {
			return nil, err
		}
		files = append(files, GeneratedFile{Kind: "nuevos", Path: path, Warnings: warnings})

		xmlPath, err := output.NextFileName(s.cfg.OutputDir, "configuracion", "xml", now)
		if err != nil {
			return nil, err
		}
		if err := output.WriteLoaderConfig(xmlPath); err != nil {
			return nil, err
		}
		files = append(files, GeneratedFile{Kind: "configuracion", Path: xmlPath})
	}

	if len(decoms) > 0 {
		if s.cfg.ObligatoryFields {
			for _, d := range decoms {
				if d.Record.FID == "" || d.Record.OutOfService == "" {
					return nil, fmt.Errorf("baja fila %d: campos obligatorios incompletos", d.Record.RowIndex+2)
				}
			}
		}
		path, err := output.NextFileName(s.cfg.OutputDir, "bajas", "txt", now)
		if err != nil {
			return nil, err
		}
		rows := make([][]string, 0, len(decoms))
		for _, d := range decoms {
			rows = append(rows, output.DecommissionRow(d.Record))
		}
		warnings, err := output.WriteTXT(path, output.DecommissionColumns, rows)
		if err != nil {
			return nil, err
		}
		files = append(files, GeneratedFile{Kind: "bajas", Path: path, Warnings: warnings})

		xmlPath, err := output.NextFileName(s.cfg.OutputDir, "configuracion_bajas", "xml", now)
		if err != nil {
			return nil, err
		}
		if err := output.WriteDecommissionConfig(xmlPath); err != nil {
			return nil, err
		}
		files = append(files, GeneratedFile{Kind: "configuracion_bajas", Path: xmlPath})
	}

	normRows := [][]string{}
	for _, r := range newRecords {
		if output.HasNorm(r) {
			normRows = append(normRows, output.NormRow(r))
		}
	}
	for _, d := range decoms {
		if output.HasNorm(d.Record) {
			normRows = append(normRows, output.NormRow(d.Record))
		}
	}
	if len(normRows) > 0 {
		path, err := output.NextFileName(s.cfg.OutputDir, "normas", "txt", now)
		if err != nil {
			return nil, err
		}
		warnings, err := output.WriteTXT(path, output.NormColumns, normRows)
		if err != nil {
			return nil, err
		}
		files = append(files, GeneratedFile{Kind: "normas", Path: path, Warnings: warnings})

		xmlPath, err := output.NextFileName(s.cfg.OutputDir, "configuracion_normas", "xml", now)
		if err != nil {
			return nil, err
		}
		if err := output.WriteNormConfig(xmlPath); err != nil {
			return nil, err
		}
		files = append(files, GeneratedFile{Kind: "configuracion_normas", Path: xmlPath})
	}

	return files, nil
}

func (s *ProcessingService) writeReview(records []*internal.Record, errs []internal.ValidationError) (GeneratedFile, error) {
	path, err := output.NextFileName(s.cfg.OutputDir, "revision", "xlsx", time.Now())
	if err != nil {
		return GeneratedFile{}, err
	}
	if err := output.WriteReview(path, records, errs); err != nil {
		return GeneratedFile{}, err
	}
	return GeneratedFile{Kind: "revision", Path: path}, nil
}
