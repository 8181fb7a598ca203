package ws

// Event is the envelope of every WebSocket frame in both directions.
type Event struct {
	Op   string `json:"op"`
	Data any    `json:"d,omitempty"`
	Seq  int64  `json:"seq,omitempty"`
}

// Client -> server.
const (
	OpHeartbeat = "heartbeat"
)

// Server -> client.
const (
	OpReady        = "ready"
	OpHeartbeatAck = "heartbeat_ack"

	OpRecipeCreate = "recipe_create"
	OpRecipeUpdate = "recipe_update"
	OpRecipeDelete = "recipe_delete"

	OpMealPlanCreate = "mealplan_create"
	OpMealPlanUpdate = "mealplan_update"
	OpMealPlanDelete = "mealplan_delete"

	OpPantryCreate = "pantry_create"
	OpPantryUpdate = "pantry_update"
	OpPantryDelete = "pantry_delete"

	OpShoppingListCreate = "shopping_list_create"
	OpShoppingListUpdate = "shopping_list_update"
	OpShoppingListDelete = "shopping_list_delete"

	OpContributionCreate = "contribution_create"
)

// ReadyData is sent once after the connection is registered.
type ReadyData struct {
	UserID string `json:"user_id"`
}

// DeletedData is the payload of *_delete events.
type DeletedData struct {
	ID string `json:"id"`
}
