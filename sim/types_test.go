package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPartyStatus_MostSpecificWins(t *testing.T) {
	p := &Party{ArrivalTime: 1}
	assert.Equal(t, "waiting_for_table", PartyStatus(p))

	p.WalkStartTime = f64(2)
	assert.Equal(t, "being_seated", PartyStatus(p))

	p.TableAssignedTime = f64(3)
	assert.Equal(t, "deciding", PartyStatus(p))

	p.OrderingStart = f64(4)
	assert.Equal(t, "ordering", PartyStatus(p))

	p.OrderingComplete = f64(5)
	assert.Equal(t, "waiting_for_food", PartyStatus(p))

	p.KitchenStart = f64(5)
	assert.Equal(t, "waiting_for_food", PartyStatus(p))

	p.FirstDeliveryTime = f64(8)
	assert.Equal(t, "dining", PartyStatus(p))

	p.DiningStart = f64(9)
	assert.Equal(t, "dining", PartyStatus(p))

	p.PaymentStart = f64(12)
	assert.Equal(t, "paying", PartyStatus(p))

	p.CleanupStart = f64(14)
	assert.Equal(t, "cleaning", PartyStatus(p))

	p.DepartureTime = f64(18)
	assert.Equal(t, "departed", PartyStatus(p))
}

func TestDishStatus_Progression(t *testing.T) {
	d := &Dish{}
	assert.Equal(t, "queued", DishStatus(d))
	d.StartTime = f64(1)
	assert.Equal(t, "cooking", DishStatus(d))
	d.CompleteTime = f64(2)
	assert.Equal(t, "expo_queue", DishStatus(d))
	d.ExpoStartTime = f64(3)
	assert.Equal(t, "expo_check", DishStatus(d))
	d.ExpoCompleteTime = f64(4)
	assert.Equal(t, "delivered", DishStatus(d))
}

func TestComponentStatus_Progression(t *testing.T) {
	c := &DishComponent{}
	assert.Equal(t, "queued", ComponentStatus(c))
	c.StartTime = f64(1)
	assert.Equal(t, "cooking", ComponentStatus(c))
	c.CompleteTime = f64(2)
	assert.Equal(t, "complete", ComponentStatus(c))
}

func TestTaskKindString(t *testing.T) {
	assert.Equal(t, "ORDERING", TaskOrdering.String())
	assert.Equal(t, "CHECKOUT", TaskCheckout.String())
	assert.Equal(t, "DELIVERY", TaskDelivery.String())
	assert.Equal(t, "CLEANING", TaskCleaning.String())
}
