package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"rental-backend/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Scheduler uploads periodic SQL snapshots of the business tables to an
// S3-compatible bucket. Rental records are small enough that a full dump
// per cycle is cheaper than managing incremental state.
type Scheduler struct {
	db       *pgxpool.Pool
	cfg      config.BackupConfig
	ticker   *time.Ticker
	stopChan chan bool
	mu       sync.Mutex
}

// backupTables is the dump order. Referencing tables come after the
// tables they point at so a restore can replay the file top to bottom.
var backupTables = []string{
	"users", "customers", "equipment", "system_settings",
	"orders", "payments", "expenses", "action_logs", "online_transactions",
}

func NewScheduler(db *pgxpool.Pool, cfg config.BackupConfig) *Scheduler {
	return &Scheduler{db: db, cfg: cfg}
}

// Start launches the backup loop. The first backup runs immediately.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ticker != nil {
		return
	}

	interval := time.Duration(s.cfg.IntervalHours) * time.Hour
	s.ticker = time.NewTicker(interval)
	s.stopChan = make(chan bool)

	go func() {
		log.Println("[Backup] Starting automatic backup scheduler")
		s.runBackup()

		for {
			select {
			case <-s.ticker.C:
				s.runBackup()
			case <-s.stopChan:
				log.Println("[Backup] Scheduler stopped")
				return
			}
		}
	}()

	log.Printf("[Backup] Scheduler started (interval: %v)", interval)
}

func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ticker != nil {
		s.ticker.Stop()
		s.stopChan <- true
		s.ticker = nil
	}
}

func (s *Scheduler) runBackup() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	log.Println("[Backup] Starting backup...")

	client, err := s.newClient(ctx)
	if err != nil {
		log.Printf("[Backup] Failed to configure storage client: %v", err)
		return
	}

	data, err := s.dumpDatabase(ctx)
	if err != nil {
		log.Printf("[Backup] Failed to create backup: %v", err)
		return
	}

	key := fmt.Sprintf("backups/rental_db_%s.sql", time.Now().Format("20060102_150405"))

	_, err = client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/sql"),
	})
	if err != nil {
		log.Printf("[Backup] Failed to upload: %v", err)
		return
	}

	log.Printf("[Backup] Success: %s (%d bytes)", key, len(data))
}

func (s *Scheduler) newClient(ctx context.Context) (*s3.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.cfg.AccessKey,
			s.cfg.SecretKey,
			"",
		)),
		awsconfig.WithRegion(s.cfg.Region),
	)
	if err != nil {
		return nil, err
	}

	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		if s.cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(s.cfg.Endpoint)
		}
	}), nil
}

// dumpDatabase serializes every business table as INSERT statements.
func (s *Scheduler) dumpDatabase(ctx context.Context) ([]byte, error) {
	var buffer bytes.Buffer
	buffer.WriteString("-- Rental Database Backup\n")
	buffer.WriteString(fmt.Sprintf("-- Generated: %s\n\n", time.Now().Format(time.RFC3339)))

	for _, table := range backupTables {
		rows, err := s.db.Query(ctx, fmt.Sprintf("SELECT * FROM %s", table))
		if err != nil {
			return nil, fmt.Errorf("failed to dump %s: %w", table, err)
		}

		buffer.WriteString(fmt.Sprintf("\n-- Table: %s\n", table))

		descs := rows.FieldDescriptions()
		cols := make([]string, len(descs))
		for i, d := range descs {
			cols[i] = d.Name
		}

		for rows.Next() {
			values, err := rows.Values()
			if err != nil {
				rows.Close()
				return nil, fmt.Errorf("failed to read %s row: %w", table, err)
			}

			buffer.WriteString(fmt.Sprintf("INSERT INTO %s (%s) VALUES (", table, strings.Join(cols, ", ")))
			for i, v := range values {
				if i > 0 {
					buffer.WriteString(", ")
				}
				buffer.WriteString(formatSQLValue(v))
			}
			buffer.WriteString(");\n")
		}
		rows.Close()

		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("failed to dump %s: %w", table, err)
		}
	}

	return buffer.Bytes(), nil
}

func formatSQLValue(v interface{}) string {
	if v == nil {
		return "NULL"
	}
	switch val := v.(type) {
	case []byte:
		return fmt.Sprintf("'%s'", strings.ReplaceAll(string(val), "'", "''"))
	case string:
		return fmt.Sprintf("'%s'", strings.ReplaceAll(val, "'", "''"))
	case time.Time:
		return fmt.Sprintf("'%s'", val.Format("2006-01-02 15:04:05.999999-07"))
	case map[string]interface{}, []interface{}:
		// JSONB columns come back decoded
		b, err := json.Marshal(val)
		if err != nil {
			return "NULL"
		}
		return fmt.Sprintf("'%s'", strings.ReplaceAll(string(b), "'", "''"))
	default:
		return fmt.Sprintf("%v", val)
	}
}
