package dag

import (
	"fmt"
	"slices"

	"fortio.org/safecast"
)

type Topo struct {
	Order   []ModuleID   // порядок загрузки: зависимости раньше импортёров
	Batches [][]ModuleID // волны модулей, которые можно обрабатывать параллельно
	Cyclic  bool
	Cycles  []ModuleID // модули, не попавшие в порядок из-за цикла
}

func moduleID(i int) ModuleID {
	id, err := safecast.Conv[ModuleID](i)
	if err != nil {
		panic(fmt.Errorf("module id overflow: %w", err))
	}
	return id
}

// ToposortKahn orders present modules by Kahn's algorithm. Each batch holds
// the modules whose dependencies are all in earlier batches; batches are
// sorted by ID so the result is deterministic.
func ToposortKahn(g Graph) *Topo {
	pending := slices.Clone(g.Pending)
	topo := &Topo{}

	var current []ModuleID
	active := 0
	for i, present := range g.Present {
		if !present {
			continue
		}
		active++
		if pending[i] == 0 {
			current = append(current, moduleID(i))
		}
	}

	for len(current) > 0 {
		topo.Batches = append(topo.Batches, current)
		topo.Order = append(topo.Order, current...)
		var next []ModuleID
		for _, id := range current {
			for _, user := range g.Users[int(id)] {
				pending[int(user)]--
				if pending[int(user)] == 0 {
					next = append(next, user)
				}
			}
		}
		slices.Sort(next)
		current = next
	}

	if len(topo.Order) != active {
		topo.Cyclic = true
		for i, present := range g.Present {
			if present && pending[i] > 0 {
				topo.Cycles = append(topo.Cycles, moduleID(i))
			}
		}
	}
	return topo
}
