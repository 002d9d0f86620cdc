package queue

import (
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "os"
    "path/filepath"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"
    "go.uber.org/zap"

    "github.com/bantus/rental-backend/internal/config"
)

const notificationLog = "notifications.log"

// StartNotificationConsumer connects to RabbitMQ, declares every event
// queue and appends one line per delivered event to
// <LogDir>/notifications.log.  It reconnects with exponential backoff and
// returns only when ctx is cancelled.
func StartNotificationConsumer(ctx context.Context, cfg config.QueueConfig, log *zap.Logger) error {
    log = log.Named("consumer")
    backoff := time.Second
    for {
        conn, err := amqp.Dial(cfg.URL)
        if err != nil {
            log.Warn("failed to dial broker", zap.Error(err), zap.Duration("retry_in", backoff))
            if !sleep(ctx, backoff) {
                return ctx.Err()
            }
            if backoff < 30*time.Second {
                backoff *= 2
            }
            continue
        }
        backoff = time.Second

        err = consumeLoop(ctx, conn, cfg.LogDir, log)
        _ = conn.Close()
        if ctx.Err() != nil {
            return ctx.Err()
        }
        log.Warn("consume loop ended, reconnecting", zap.Error(err))
        if !sleep(ctx, 2*time.Second) {
            return ctx.Err()
        }
    }
}

func sleep(ctx context.Context, d time.Duration) bool {
    t := time.NewTimer(d)
    defer t.Stop()
    select {
    case <-ctx.Done():
        return false
    case <-t.C:
        return true
    }
}

type delivery struct {
    queue string
    amqp.Delivery
}

func consumeLoop(ctx context.Context, conn *amqp.Connection, dir string, log *zap.Logger) error {
    ch, err := conn.Channel()
    if err != nil {
        return fmt.Errorf("channel open: %w", err)
    }
    defer func() { _ = ch.Close() }()

    if err := ch.Qos(50, 0, false); err != nil {
        log.Warn("set QoS failed", zap.Error(err))
    }

    merged := make(chan delivery)
    done := make(chan struct{})
    defer close(done)
    for _, name := range Queues {
        if _, err := ch.QueueDeclare(name, true, false, false, false, nil); err != nil {
            return fmt.Errorf("queue declare %s: %w", name, err)
        }
        msgs, err := ch.Consume(name, "", false, false, false, false, nil)
        if err != nil {
            return fmt.Errorf("queue consume %s: %w", name, err)
        }
        go func(name string, msgs <-chan amqp.Delivery) {
            for d := range msgs {
                select {
                case merged <- delivery{queue: name, Delivery: d}:
                case <-done:
                    return
                }
            }
        }(name, msgs)
    }

    closed := ch.NotifyClose(make(chan *amqp.Error, 1))
    for {
        select {
        case <-ctx.Done():
            return ctx.Err()
        case amqpErr := <-closed:
            if amqpErr != nil {
                return amqpErr
            }
            return errors.New("channel closed")
        case d := <-merged:
            if err := handleMessage(dir, d.queue, d.Body, time.Now()); err != nil {
                log.Error("handle message failed", zap.String("queue", d.queue), zap.Error(err))
                _ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
                continue
            }
            _ = d.Ack(false)
        }
    }
}

// handleMessage decodes one event and appends its notification line.
func handleMessage(dir, queue string, body []byte, now time.Time) error {
    line, err := formatLine(queue, body, now)
    if err != nil {
        return err
    }
    if err := os.MkdirAll(dir, 0o755); err != nil {
        return fmt.Errorf("mkdir %s: %w", dir, err)
    }
    f, err := os.OpenFile(filepath.Join(dir, notificationLog), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
    if err != nil {
        return fmt.Errorf("open log file: %w", err)
    }
    defer f.Close()
    if _, err := f.WriteString(line); err != nil {
        return fmt.Errorf("write log: %w", err)
    }
    return nil
}

func formatLine(queue string, body []byte, now time.Time) (string, error) {
    stamp := now.UTC().Format(time.RFC3339)
    switch queue {
    case QueueBillsGenerated:
        var ev BillsGeneratedEvent
        if err := json.Unmarshal(body, &ev); err != nil {
            return "", fmt.Errorf("unmarshal: %w", err)
        }
        return fmt.Sprintf("[%s] Utility bills generated | reading_id=%d | session_id=%d | room_id=%d | period=%s | water=%s | electricity=%s | total=%s | deadline=%s\n",
            stamp, ev.ReadingID, ev.SessionID, ev.RoomID, ev.Period, ev.WaterCost, ev.ElectricityCost, ev.Total, ev.Deadline), nil
    case QueuePaymentRecorded:
        var ev PaymentRecordedEvent
        if err := json.Unmarshal(body, &ev); err != nil {
            return "", fmt.Errorf("unmarshal: %w", err)
        }
        return fmt.Sprintf("[%s] Rent payment recorded | payment_id=%d | session_id=%d | amount=%s | date=%s\n",
            stamp, ev.PaymentID, ev.SessionID, ev.Amount, ev.PaymentDate), nil
    case QueueIssueReported:
        var ev IssueReportedEvent
        if err := json.Unmarshal(body, &ev); err != nil {
            return "", fmt.Errorf("unmarshal: %w", err)
        }
        return fmt.Sprintf("[%s] Issue reported | issue_id=%d | session_id=%d | room_id=%d | description=%q\n",
            stamp, ev.IssueID, ev.SessionID, ev.RoomID, ev.Description), nil
    }
    return "", fmt.Errorf("unknown queue %q", queue)
}
