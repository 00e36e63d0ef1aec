// Package serialport связывает конвейер с датчиком и сортировщиком по последовательному порту.
// Протокол строковый: входящие OBJECT_DETECTED / OBJECT_GONE, исходящие GRADE_<label>.
package serialport

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"iter"
	"strings"
	"sync"

	"go.bug.st/serial"

	"egg-grader/internal/domain/entity"
	"egg-grader/internal/domain/port"
	"egg-grader/internal/logger"
	"egg-grader/internal/timeutil"
)

// Port минимальный интерфейс порта, подменяется в тестах.
type Port interface {
	io.ReadWriter
	io.Closer
}

// inputResetter есть у настоящего serial.Port.
type inputResetter interface {
	ResetInputBuffer() error
}

const eventBuffer = 16

// Channel двусторонний канал к железу: события датчика внутрь, команды наружу.
type Channel struct {
	port   Port
	events chan entity.DetectionEvent
	clock  timeutil.Clock
	logger *logger.Logger

	writeMu   sync.Mutex
	closeOnce sync.Once
	closeErr  error
}

// Open открывает порт path. Ошибка оборачивает entity.ErrConnection.
func Open(path string, opts PortOptions, log *logger.Logger) (*Channel, error) {
	mode, err := opts.SerialMode()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrConnection, err)
	}

	p, err := serial.Open(path, mode)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s at %d baud: %v", entity.ErrConnection, path, mode.BaudRate, err)
	}

	return NewChannel(p, timeutil.RealClock{}, log), nil
}

// NewChannel создаёт канал поверх уже открытого порта.
func NewChannel(p Port, clock timeutil.Clock, log *logger.Logger) *Channel {
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Channel{
		port:   p,
		events: make(chan entity.DetectionEvent, eventBuffer),
		clock:  clock,
		logger: log,
	}
}

// Monitor читает строки из порта и передаёт разобранные события в Poll.
// Битые и неизвестные строки отбрасываются. Когда порт закрыт, последовательности Poll завершаются.
func (c *Channel) Monitor(ctx context.Context) error {
	defer close(c.events)

	scan := bufio.NewScanner(c.port)
	lineChan := make(chan string)
	scanErrChan := make(chan error, 1)

	// блокирующий scan.Scan не мешает ждать отмену ctx во внешнем цикле
	go func() {
		defer close(lineChan)
		for scan.Scan() {
			select {
			case lineChan <- scan.Text():
			case <-ctx.Done():
				return
			}
		}
		if err := scan.Err(); err != nil {
			scanErrChan <- err
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case err := <-scanErrChan:
			return err

		case line, ok := <-lineChan:
			if !ok {
				select {
				case err := <-scanErrChan:
					return err
				default:
					return nil
				}
			}

			ev, ok := entity.ParseEvent(line, c.clock.Now())
			if !ok {
				c.logger.Warning("Discarding serial line %q", line)
				continue
			}

			select {
			case c.events <- ev:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}

// Poll возвращает ленивую последовательность событий датчика. Каждый вызов
// отдаёт события, пришедшие с этого момента, пока не отменён ctx или не закрыт порт.
func (c *Channel) Poll(ctx context.Context) iter.Seq[entity.DetectionEvent] {
	return func(yield func(entity.DetectionEvent) bool) {
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-c.events:
				if !ok {
					return
				}
				if !yield(ev) {
					return
				}
			}
		}
	}
}

// Flush отбрасывает ещё не прочитанные события и очищает входной буфер порта.
func (c *Channel) Flush() {
	dropped := 0
	for {
		select {
		case _, ok := <-c.events:
			if !ok {
				return
			}
			dropped++
			continue
		default:
		}
		break
	}

	if r, ok := c.port.(inputResetter); ok {
		if err := r.ResetInputBuffer(); err != nil {
			c.logger.Warning("Failed to reset serial input buffer: %v", err)
		}
	}
	if dropped > 0 {
		c.logger.Info("Flushed %d stale serial event(s)", dropped)
	}
}

// Send пишет команду в порт, дописывая перевод строки. Ошибка оборачивает entity.ErrTransport.
func (c *Channel) Send(command string) error {
	if !strings.HasSuffix(command, "\n") {
		command += "\n"
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	n, err := c.port.Write([]byte(command))
	if err != nil {
		return fmt.Errorf("%w: %v", entity.ErrTransport, err)
	}
	if n != len(command) {
		return fmt.Errorf("%w: short write %d of %d bytes", entity.ErrTransport, n, len(command))
	}
	return nil
}

// Close закрывает порт. Повторный вызов возвращает ту же ошибку.
func (c *Channel) Close() error {
	c.closeOnce.Do(func() {
		c.closeErr = c.port.Close()
	})
	return c.closeErr
}

var (
	_ port.TriggerSource = (*Channel)(nil)
	_ port.CommandSender = (*Channel)(nil)
)
