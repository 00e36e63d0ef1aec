package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"egg-grader/internal/domain/entity"
	"egg-grader/internal/domain/port"
	"egg-grader/internal/logger"
)

// JSONResultLog журнал в одном JSON-массиве. Каждое добавление перечитывает и
// переписывает файл целиком: O(n), при одном яйце раз в несколько секунд этого хватает.
// Файл заменяется через rename, поэтому даже сторонний процесс не увидит его наполовину.
type JSONResultLog struct {
	path   string
	mu     sync.RWMutex
	logger *logger.Logger
	rename func(oldpath, newpath string) error
}

// NewJSONResultLog открывает журнал. Если файла нет, создаётся пустой.
// Битый файл откладываем в <path>.corrupt-<unix> и начинаем с пустого журнала.
func NewJSONResultLog(path string, log *logger.Logger) (*JSONResultLog, error) {
	return newJSONResultLog(path, log, os.Rename)
}

func newJSONResultLog(path string, log *logger.Logger, rename func(oldpath, newpath string) error) (*JSONResultLog, error) {
	if log == nil {
		log = logger.Discard()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("%w: create store directory: %v", entity.ErrPersistence, err)
	}

	l := &JSONResultLog{path: path, logger: log, rename: rename}

	_, err := l.load()
	switch {
	case errors.Is(err, fs.ErrNotExist):
		if err := l.write(nil); err != nil {
			return nil, err
		}
	case errors.Is(err, entity.ErrCorruptStore):
		aside, rerr := l.moveAside()
		if rerr != nil {
			// Файл не трогаем: читается как пустой, добавления отклоняются, пока его не уберут.
			log.Error("Result log %s is corrupt (%v) and could not be moved aside (%v); it is left untouched and new records will not be saved", path, err, rerr)
			break
		}
		log.Error("DATA LOSS: result log %s is corrupt (%v), starting with an empty log; old file kept at %s", path, err, aside)
		if err := l.write(nil); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, fmt.Errorf("%w: %v", entity.ErrPersistence, err)
	}

	return l, nil
}

// moveAside переименовывает битый журнал в <path>.corrupt-<unix>.
func (l *JSONResultLog) moveAside() (string, error) {
	aside := fmt.Sprintf("%s.corrupt-%d", l.path, time.Now().Unix())
	if err := l.rename(l.path, aside); err != nil {
		return "", err
	}
	return aside, nil
}

// Path путь к файлу журнала.
func (l *JSONResultLog) Path() string {
	return l.path
}

// Append добавляет запись, переписывая файл целиком.
func (l *JSONResultLog) Append(ctx context.Context, record entity.EggRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	records, err := l.load()
	switch {
	case errors.Is(err, fs.ErrNotExist):
		records = nil
	case errors.Is(err, entity.ErrCorruptStore):
		aside, rerr := l.moveAside()
		if rerr != nil {
			return fmt.Errorf("%w: result log is corrupt and could not be moved aside: %v", entity.ErrPersistence, rerr)
		}
		l.logger.Error("DATA LOSS: result log %s is corrupt (%v), old file kept at %s", l.path, err, aside)
		records = nil
	case err != nil:
		return fmt.Errorf("%w: %v", entity.ErrPersistence, err)
	}

	records = append(records, record)
	return l.write(records)
}

// Records возвращает все записи. Битый или отсутствующий файл читается как пустой журнал.
func (l *JSONResultLog) Records(ctx context.Context) ([]entity.EggRecord, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	records, err := l.load()
	switch {
	case err == nil:
		return records, nil
	case errors.Is(err, fs.ErrNotExist):
		return []entity.EggRecord{}, nil
	case errors.Is(err, entity.ErrCorruptStore):
		l.logger.Warning("Result log %s is unreadable, serving it as empty: %v", l.path, err)
		return []entity.EggRecord{}, nil
	default:
		return nil, fmt.Errorf("%w: %v", entity.ErrPersistence, err)
	}
}

func (l *JSONResultLog) load() ([]entity.EggRecord, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, err
	}
	return decodeRecords(data)
}

// write пишет во временный файл рядом и атомарно подменяет журнал.
func (l *JSONResultLog) write(records []entity.EggRecord) error {
	if records == nil {
		records = []entity.EggRecord{}
	}
	data, err := json.MarshalIndent(records, "", "    ")
	if err != nil {
		return fmt.Errorf("%w: encode: %v", entity.ErrPersistence, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(l.path), filepath.Base(l.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: %v", entity.ErrPersistence, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: write: %v", entity.ErrPersistence, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: sync: %v", entity.ErrPersistence, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: close: %v", entity.ErrPersistence, err)
	}
	if err := os.Rename(tmpName, l.path); err != nil {
		return fmt.Errorf("%w: replace: %v", entity.ErrPersistence, err)
	}
	return nil
}

// decodeRecords читает массив записей. Старые выгрузки бывают вида {"eggs": [...]}
// или одной записью без массива.
func decodeRecords(data []byte) ([]entity.EggRecord, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return []entity.EggRecord{}, nil
	}

	switch data[0] {
	case '[':
		var records []entity.EggRecord
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("%w: %v", entity.ErrCorruptStore, err)
		}
		if records == nil {
			records = []entity.EggRecord{}
		}
		return records, nil
	case '{':
		var wrapped struct {
			Eggs json.RawMessage `json:"eggs"`
		}
		if err := json.Unmarshal(data, &wrapped); err != nil {
			return nil, fmt.Errorf("%w: %v", entity.ErrCorruptStore, err)
		}
		if wrapped.Eggs != nil {
			// {"eggs": null} и {"eggs": []} это пустой журнал.
			var records []entity.EggRecord
			if err := json.Unmarshal(wrapped.Eggs, &records); err != nil {
				return nil, fmt.Errorf("%w: %v", entity.ErrCorruptStore, err)
			}
			if records == nil {
				records = []entity.EggRecord{}
			}
			return records, nil
		}
		var single entity.EggRecord
		if err := json.Unmarshal(data, &single); err != nil {
			return nil, fmt.Errorf("%w: %v", entity.ErrCorruptStore, err)
		}
		return []entity.EggRecord{single}, nil
	default:
		return nil, fmt.Errorf("%w: unexpected content", entity.ErrCorruptStore)
	}
}

var _ port.ResultLog = (*JSONResultLog)(nil)
