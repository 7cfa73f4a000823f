package mailer

import (
	"fmt"

	"github.com/doodlesbykumbi/cms-in-go/pkg/model"
)

// NotificationSubject is the subject of new-entry notifications
const NotificationSubject = "[CMS Form] A new entry has been created"

// EntryNotification builds the message announcing a new entry. entryURL
// must be absolute since it is read outside the site.
func EntryNotification(form *model.Form, entryURL string) *model.EmailMessage {
	return &model.EmailMessage{
		Recipients: form.NotificationEmail,
		Subject:    NotificationSubject,
		Body: fmt.Sprintf("A visitor has filled out the %s form. The entry can be found here:\n%s\n",
			form.Name, entryURL),
	}
}
