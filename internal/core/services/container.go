package services

import (
	"github.com/ledgerbook/ledgerbook/internal/core/ports/gateways"
	portsrepo "github.com/ledgerbook/ledgerbook/internal/core/ports/repositories"
	portssvc "github.com/ledgerbook/ledgerbook/internal/core/ports/services"
	"github.com/ledgerbook/ledgerbook/internal/events"
)

// NewServiceContainer wires the services over the repository provider, the
// exchange rate gateway and the event publisher.
func NewServiceContainer(repos portsrepo.RepositoryProvider, rates gateways.RateProvider, publisher events.Publisher) *portssvc.ServiceContainer {
	return &portssvc.ServiceContainer{
		Account: NewAccountService(repos.AccountRepo),
		Entry:   NewEntryService(repos.EntryRepo, repos.AccountRepo, rates, publisher),
		Summary: NewSummaryService(repos.SummaryRepo, repos.AccountRepo),
	}
}
