package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spanishgas/churnpipe/internal/contracts"
	"github.com/spanishgas/churnpipe/pkg/logger"
)

// Raw extract file names inside the data directory.
const (
	LabelsFile         = "churn_labels.csv"
	AttributesFile     = "customer_attributes.csv"
	ContractsFile      = "contracts.csv"
	InteractionsFile   = "interactions.csv"
	PricesFile         = "prices.csv"
	ProvinceCostsFile  = "province_costs.csv"
	ProvinceLookupFile = "province_lookup.csv"
)

// Loader reads the raw CSV extracts into typed records. Unparseable cells
// become nulls; only a missing file or broken CSV structure is an error.
type Loader struct {
	dataDir string
	logger  *logger.Logger
}

func NewLoader(dataDir string, log *logger.Logger) *Loader {
	return &Loader{dataDir: dataDir, logger: log}
}

// LoadAll reads every reference table for a run. The hourly consumption
// stream is deliberately not here: see ConsumptionReader.
func (l *Loader) LoadAll() (*contracts.RawTables, error) {
	tables := &contracts.RawTables{}

	var err error
	if tables.Labels, err = l.LoadLabels(); err != nil {
		return nil, err
	}
	if tables.Attributes, err = l.LoadAttributes(); err != nil {
		return nil, err
	}
	if tables.Contracts, err = l.LoadContracts(); err != nil {
		return nil, err
	}
	if tables.Interactions, err = l.LoadInteractions(); err != nil {
		return nil, err
	}
	if tables.Prices, err = l.LoadPrices(); err != nil {
		return nil, err
	}
	if tables.ProvinceCosts, err = l.LoadProvinceCosts(); err != nil {
		return nil, err
	}
	if tables.ProvinceLookup, err = l.LoadProvinceLookup(); err != nil {
		return nil, err
	}

	l.logger.WithFields(map[string]interface{}{
		"labels":       len(tables.Labels),
		"attributes":   len(tables.Attributes),
		"contracts":    len(tables.Contracts),
		"interactions": len(tables.Interactions),
		"prices":       len(tables.Prices),
	}).Info("raw tables loaded")

	return tables, nil
}

func (l *Loader) LoadLabels() ([]contracts.LabelRecord, error) {
	var out []contracts.LabelRecord
	err := l.readCSV(LabelsFile, func(row rowReader) {
		out = append(out, contracts.LabelRecord{
			CustomerID: row.str("customer_id"),
			Churn:      parseI64(row.cell("churn")),
		})
	})
	return out, err
}

func (l *Loader) LoadAttributes() ([]contracts.AttributeRecord, error) {
	var out []contracts.AttributeRecord
	err := l.readCSV(AttributesFile, func(row rowReader) {
		out = append(out, contracts.AttributeRecord{
			CustomerID:        row.str("customer_id"),
			IsIndustrial:      parseBool(row.cell("is_industrial")),
			ContractedPowerKW: parseF64(row.cell("contracted_power_kw")),
			IsSecondResidence: parseBool(row.cell("is_second_residence")),
			ProvinceCode:      parseStr(row.cell("province_code")),
		})
	})
	return out, err
}

func (l *Loader) LoadContracts() ([]contracts.ContractRecord, error) {
	var out []contracts.ContractRecord
	err := l.readCSV(ContractsFile, func(row rowReader) {
		out = append(out, contracts.ContractRecord{
			CustomerID:            row.str("customer_id"),
			SalesChannel:          parseStr(row.cell("sales_channel")),
			FirstActivationDate:   parseDate(row.cell("first_activation_date")),
			NextRenewalDate:       parseDate(row.cell("next_renewal_date")),
			LastProductChangeDate: parseDate(row.cell("last_product_change_date")),
		})
	})
	return out, err
}

func (l *Loader) LoadInteractions() ([]contracts.InteractionRecord, error) {
	var out []contracts.InteractionRecord
	err := l.readCSV(InteractionsFile, func(row rowReader) {
		out = append(out, contracts.InteractionRecord{
			CustomerID:     row.str("customer_id"),
			Date:           parseDate(row.cell("interaction_date")),
			Summary:        parseStr(row.cell("interaction_summary")),
			Intent:         parseStr(row.cell("customer_intent")),
			SentimentLabel: parseStr(row.cell("sentiment_label")),
			SentimentNeg:   parseF64(row.cell("sentiment_neg")),
			SentimentNeu:   parseF64(row.cell("sentiment_neu")),
			SentimentPos:   parseF64(row.cell("sentiment_pos")),
		})
	})
	return out, err
}

func (l *Loader) LoadPrices() ([]contracts.PriceRecord, error) {
	var out []contracts.PriceRecord
	err := l.readCSV(PricesFile, func(row rowReader) {
		out = append(out, contracts.PriceRecord{
			CustomerID:          row.str("customer_id"),
			PricingDate:         parseDate(row.cell("pricing_date")),
			PriceTier1:          parseF64(row.cell("price_tier_1")),
			PriceTier2:          parseF64(row.cell("price_tier_2")),
			PriceTier3:          parseF64(row.cell("price_tier_3")),
			GasPrice:            parseF64(row.cell("gas_price")),
			ElecFixedFee:        parseF64(row.cell("elec_fixed_fee")),
			GasFixedRevenueYear: parseF64(row.cell("gas_fixed_revenue_year")),
		})
	})
	return out, err
}

func (l *Loader) LoadProvinceCosts() ([]contracts.ProvinceCostRecord, error) {
	var out []contracts.ProvinceCostRecord
	err := l.readCSV(ProvinceCostsFile, func(row rowReader) {
		out = append(out, contracts.ProvinceCostRecord{
			ProvinceCode:     row.str("province_code"),
			Month:            parseMonth(row.cell("month")),
			ElecVarCost:      parseF64(row.cell("elec_var_cost")),
			ElecNetworkCost:  parseF64(row.cell("elec_network_cost")),
			ElecFixedCost:    parseF64(row.cell("elec_fixed_cost")),
			GasVarCost:       parseF64(row.cell("gas_var_cost")),
			GasFixedCostYear: parseF64(row.cell("gas_fixed_cost_year")),
		})
	})
	return out, err
}

func (l *Loader) LoadProvinceLookup() ([]contracts.ProvinceLookupRecord, error) {
	var out []contracts.ProvinceLookupRecord
	err := l.readCSV(ProvinceLookupFile, func(row rowReader) {
		out = append(out, contracts.ProvinceLookupRecord{
			CustomerID:   row.str("customer_id"),
			ProvinceCode: row.str("province_code"),
		})
	})
	return out, err
}

// rowReader resolves cells by header name, tolerating column reordering.
type rowReader struct {
	index  map[string]int
	record []string
}

func (r rowReader) cell(name string) string {
	i, ok := r.index[name]
	if !ok || i >= len(r.record) {
		return ""
	}
	return r.record[i]
}

func (r rowReader) str(name string) string {
	return strings.TrimSpace(r.cell(name))
}

func (l *Loader) readCSV(name string, visit func(rowReader)) error {
	path := filepath.Join(l.dataDir, name)
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", name, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("read %s header: %w", name, err)
	}
	index := make(map[string]int, len(header))
	for i, col := range header {
		index[strings.ToLower(strings.TrimSpace(col))] = i
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read %s: %w", name, err)
		}
		visit(rowReader{index: index, record: record})
	}
}
