package registry

import (
	"github.com/stayops/stayops/pkg/actions/assigntask"
	"github.com/stayops/stayops/pkg/actions/createtask"
	"github.com/stayops/stayops/pkg/actions/notify"
	"github.com/stayops/stayops/pkg/actions/updatepriority"
	"github.com/stayops/stayops/pkg/actions/updatestatus"
	"github.com/stayops/stayops/pkg/models"
	"github.com/stayops/stayops/pkg/notification"
	"github.com/stayops/stayops/pkg/persistence"
)

// RegisterDefaultActions wires every built-in action factory against the
// stores and notifier the deployment provides.
func (r *Registry) RegisterDefaultActions(p persistence.Persistence, notifier notification.Notifier) {
	r.RegisterAction(createtask.NewActionFactory(p.Tasks()))
	r.RegisterAction(assigntask.NewActionFactory(p.Tasks()))

	r.RegisterAction(notify.NewActionFactory(notifier, models.ActionSendNotification))
	r.RegisterAction(notify.NewActionFactory(notifier, models.ActionSendEmail))
	r.RegisterAction(notify.NewActionFactory(notifier, models.ActionSendSMS))
	r.RegisterAction(notify.NewActionFactory(notifier, models.ActionSendWhatsApp))

	r.RegisterAction(updatestatus.NewActionFactory(p.Tasks(), p.Bookings(), p.Issues()))
	r.RegisterAction(updatepriority.NewActionFactory(p.Issues()))
}
