package campus

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/pkg/errors"

	"github.com/KAILASATEJANI/nam/core"
)

const reminderTemplate = "fee_reminder"

type (
	reminderItem struct {
		FeeType string
		Amount  float64
		DueDate time.Time
	}

	reminderData struct {
		Name  string
		Items []reminderItem
		Total float64
	}
)

// SendDueReminders emails every student whose unsent reminders fall due within the configured window,
// then marks those reminders sent. It returns the number of reminders marked.
func (svc *Service) SendDueReminders(ctx context.Context) (int, error) {
	reminders, err := svc.store.ListDueReminders(ctx, ReminderFilter{UnsentOnly: true})
	if err != nil {
		return 0, errors.Wrap(err, "listing due reminders")
	}

	limit := svc.now().Add(svc.conf.Reminders.Window)
	byStudent := make(map[string][]DueReminder)
	order := make([]string, 0)
	for _, r := range reminders {
		if r.DueDate.After(limit) {
			continue
		}
		if _, ok := byStudent[r.StudentID]; !ok {
			order = append(order, r.StudentID)
		}
		byStudent[r.StudentID] = append(byStudent[r.StudentID], r)
	}

	var sent, emailed int
	for _, studentID := range order {
		st, found, err := svc.store.GetStudent(ctx, studentID)
		if err != nil {
			return sent, errors.Wrap(err, "getting student")
		}
		if !found || st.Email == "" {
			continue
		}

		data := reminderData{Name: st.Name}
		for _, r := range byStudent[studentID] {
			data.Items = append(data.Items, reminderItem{FeeType: r.FeeType, Amount: r.Amount, DueDate: r.DueDate})
			data.Total += r.Amount
		}

		// a reminder is marked only once its email is with the mailer; a failed mark means a resend next run
		svc.mailSvc.SendMessages(&core.EmailMessage{
			To:           []mail.Address{{Name: st.Name, Address: st.Email}},
			Subject:      "Fee payment reminder",
			TemplateName: reminderTemplate,
			TemplateData: data,
		})
		emailed++

		for _, r := range byStudent[studentID] {
			if err = svc.store.MarkDueReminderSent(ctx, r.ID); err != nil {
				return sent, errors.Wrap(err, "marking due reminder sent")
			}
			sent++
		}
	}

	svc.logger.Info(fmt.Sprintf("due reminders sent: %d (%d students)", sent, emailed))
	return sent, nil
}
