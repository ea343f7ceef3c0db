// Package demo generates deterministic ERP datasets for trying out the table
// without a database or export file at hand.
package demo

import (
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/portal-erp/erptable/internal/datatable"
	"github.com/portal-erp/erptable/internal/source"
	"github.com/portal-erp/erptable/internal/util"
)

// Epoch is the first timestamp used by generated data
var Epoch = time.Date(2025, time.January, 6, 8, 0, 0, 0, time.UTC)

type generator func(rng *rand.Rand, ids *util.IDSource, n int) *source.Dataset

var datasets = map[string]struct {
	size int
	gen  generator
}{
	"approvals": {37, approvals},
	"movements": {125, movements},
	"products":  {240, products},
}

// Names returns the available dataset names
func Names() []string {
	names := make([]string, 0, len(datasets))
	for name := range datasets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultSize returns the number of rows name generates when n is 0
func DefaultSize(name string) int {
	return datasets[name].size
}

// Generate builds dataset name with n rows (0 = default size). The same seed
// always yields the same records.
func Generate(name string, n int, seed int64) (*source.Dataset, error) {
	d, ok := datasets[name]
	if !ok {
		return nil, fmt.Errorf("%q (available: %v): %w", name, Names(), util.ErrUnknownDataset)
	}
	if n <= 0 {
		n = d.size
	}
	rng := rand.New(rand.NewSource(seed))
	ids := util.NewIDSource(rng)
	return d.gen(rng, ids, n), nil
}

var (
	requesters = []string{
		"Ana Souza", "Bruno Lima", "Carla Mendes", "Diego Rocha", "Elisa Castro",
		"Fábio Nunes", "Gabriela Alves", "Heitor Pires", "Íris Moraes", "João Teles",
	}
	movementTypes = []string{"1.1.01", "1.1.02", "1.2.01", "2.1.01", "2.2.05", "4.1.10"}
	productNames  = []string{
		"Parafuso sextavado", "Porca sextavada", "Arruela lisa", "Rolamento", "Correia dentada",
		"Válvula esfera", "Luva de proteção", "Óleo hidráulico", "Filtro de ar", "Mangueira",
	}
	productSpecs = []string{"M6", "M8", "M10", "1/2\"", "3/4\"", "20L", "P", "M", "G", "inox"}
)

func approvals(rng *rand.Rand, ids *util.IDSource, n int) *source.Dataset {
	keys := []string{"CODATENDIMENTO", "CODCOLIGADA", "ABERTURA", "SOLICITANTE", "PROTOCOLO"}
	records := make([]datatable.Record, n)
	opened := Epoch
	for i := range records {
		opened = opened.Add(time.Duration(rng.Intn(36*60)+5) * time.Minute)
		records[i] = datatable.Record{
			"CODATENDIMENTO": 10400 + i*3 + rng.Intn(3),
			"CODCOLIGADA":    1 + rng.Intn(3),
			"ABERTURA":       opened,
			"SOLICITANTE":    requesters[rng.Intn(len(requesters))],
			"PROTOCOLO":      ids.At(opened),
		}
	}
	// Arrival order is not request order
	rng.Shuffle(len(records), func(i, j int) { records[i], records[j] = records[j], records[i] })
	return &source.Dataset{Keys: keys, Records: records}
}

func movements(rng *rand.Rand, _ *util.IDSource, n int) *source.Dataset {
	keys := []string{"CODCOLIGADA", "CODFILIAL", "CODTMV", "DATAEMISSAO", "NUMEROMOV", "QTD_ITENS", "QTD", "TOTALITENS", "VALORBRUTO"}
	records := make([]datatable.Record, n)
	for i := range records {
		items := 1 + rng.Intn(40)
		rec := datatable.Record{
			"CODCOLIGADA": 1 + rng.Intn(3),
			"CODFILIAL":   1 + rng.Intn(4),
			"CODTMV":      movementTypes[rng.Intn(len(movementTypes))],
			"DATAEMISSAO": Epoch.AddDate(0, 0, rng.Intn(180)),
			"NUMEROMOV":   fmt.Sprintf("%06d", 1+rng.Intn(999999)),
			"VALORBRUTO":  decimal.New(int64(rng.Intn(50_000_000)), -2),
		}
		// Different endpoints name the item count differently
		switch i % 3 {
		case 0:
			rec["QTD_ITENS"] = items
		case 1:
			rec["QTD"] = items
		default:
			rec["TOTALITENS"] = fmt.Sprint(items)
		}
		records[i] = rec
	}
	return &source.Dataset{Keys: keys, Records: records}
}

func products(rng *rand.Rand, _ *util.IDSource, n int) *source.Dataset {
	keys := []string{"CODIGOPRD", "DESCRICAO"}
	records := make([]datatable.Record, n)
	for i := range records {
		name := productNames[rng.Intn(len(productNames))]
		spec := productSpecs[rng.Intn(len(productSpecs))]
		records[i] = datatable.Record{
			"CODIGOPRD": fmt.Sprintf("%02d.%03d.%04d", 1+i%7, 1+rng.Intn(120), i+1),
			"DESCRICAO": name + " " + spec,
		}
	}
	return &source.Dataset{Keys: keys, Records: records}
}
