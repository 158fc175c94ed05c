package scheduler

import (
	"github.com/sirupsen/logrus"

	"mudforge/pkg/world"
)

// RunRestockTick advances every shopkeeper's restock rules one cycle,
// logging and skipping any shopkeeper whose restock panics rather than
// letting one bad shopkeeper take down the whole tick.
func RunRestockTick(w *world.World) {
	for _, s := range w.Shopkeepers() {
		safeRestock(s)
	}
}

func safeRestock(s *world.Shopkeeper) {
	defer func() {
		if r := recover(); r != nil {
			logrus.WithFields(logrus.Fields{
				"function":   "RunRestockTick",
				"shopkeeper": s.ID(),
				"panic":      r,
			}).Error("restock tick panicked, skipping shopkeeper")
		}
	}()
	s.Restock()
}
