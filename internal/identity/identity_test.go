package identity

import "foodorder/internal/model"

func identityFixture() model.Identity {
	return model.Identity{ID: "u-1", Email: "ann@example.com"}
}
