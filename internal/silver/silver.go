package silver

import (
	"github.com/spanishgas/churnpipe/internal/contracts"
	"github.com/spanishgas/churnpipe/pkg/logger"
)

// Builder derives the silver tables from bronze. Bronze is never mutated:
// every transform returns a new table so runs can be replayed and compared.
// SSOT: bronze → silver transforms are orchestrated here
type Builder struct {
	channels *ChannelNormalizer
	imputer  *Imputer
	logger   *logger.Logger
}

// NewBuilder creates a silver builder.
func NewBuilder(channels *ChannelNormalizer, imputer *Imputer, log *logger.Logger) *Builder {
	return &Builder{
		channels: channels,
		imputer:  imputer,
		logger:   log,
	}
}

// Build produces (silver_customer, silver_customer_month) from the two
// bronze tables: segment derivation and channel normalization at customer
// grain, then price imputation and margin computation at customer-month
// grain.
func (b *Builder) Build(
	bronzeCustomer []contracts.Customer,
	bronzeCustomerMonth []contracts.CustomerMonth,
) ([]contracts.Customer, []contracts.CustomerMonth) {
	customers := DeriveSegments(bronzeCustomer)
	customers = b.channels.NormalizeCustomers(customers)

	segments := make(map[string]string, len(customers))
	for _, c := range customers {
		if c.Segment != nil {
			segments[c.CustomerID] = *c.Segment
		}
	}

	months := b.imputer.Impute(bronzeCustomerMonth, segments)
	months = ComputeMargins(months)

	b.logger.WithFields(map[string]interface{}{
		"customers":       len(customers),
		"customer_months": len(months),
	}).Info("Built silver tables")

	return customers, months
}
