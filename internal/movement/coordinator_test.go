package movement

import (
	"testing"

	"github.com/StorkenPb/CategoryPlanner/internal/category"
	"github.com/StorkenPb/CategoryPlanner/internal/models"
	"github.com/StorkenPb/CategoryPlanner/internal/tree"
)

func fixture() ([]models.Category, models.Graph) {
	cats := []models.Category{
		{Code: "A", Position: &models.Position{X: 0, Y: 0}},
		{Code: "B", Parent: "A", Position: &models.Position{X: 10, Y: 120}},
		{Code: "C", Parent: "B"},
		{Code: "Z", Position: &models.Position{X: 500, Y: 0}},
	}
	return cats, tree.Build(cats, tree.Options{Language: "en"})
}

// TestDragMovesSubtreeAndCommitsAtStop covers dragging A by (+50, +20):
// B follows on the canvas and its stored position changes only at stop.
func TestDragMovesSubtreeAndCommitsAtStop(t *testing.T) {
	cats, g := fixture()
	c := NewCoordinator()

	c.Start("A", models.Position{X: 0, Y: 0})
	if !c.Move(&g, "A", models.Position{X: 20, Y: 5}) {
		t.Fatal("Move returned false for an active drag")
	}
	c.Move(&g, "A", models.Position{X: 50, Y: 20})

	if got := g.Node("B").Position; got != (models.Position{X: 60, Y: 140}) {
		t.Errorf("B render position = %+v, want {60 140}", got)
	}
	if b, _ := category.Find(cats, "B"); *b.Position != (models.Position{X: 10, Y: 120}) {
		t.Errorf("B stored position changed mid-drag: %+v", *b.Position)
	}

	cPos := g.Node("C").Position
	commit := c.Stop(&g, "A", models.Position{X: 50, Y: 20})

	if commit.Selected != "A" {
		t.Errorf("Selected = %q, want A", commit.Selected)
	}
	if commit.Delta != (models.Position{X: 50, Y: 20}) {
		t.Errorf("Delta = %+v, want {50 20}", commit.Delta)
	}
	b, _ := category.Find(category.SetPositions(cats, commit.Positions), "B")
	if *b.Position != (models.Position{X: 60, Y: 140}) {
		t.Errorf("B stored position = %+v, want {60 140}", *b.Position)
	}
	cc, _ := category.Find(category.SetPositions(cats, commit.Positions), "C")
	if cc.Position == nil || *cc.Position != cPos {
		t.Errorf("C stored position = %v, want pinned %+v", cc.Position, cPos)
	}
	z, _ := category.Find(category.SetPositions(cats, commit.Positions), "Z")
	if *z.Position != (models.Position{X: 500, Y: 0}) {
		t.Errorf("unrelated Z moved to %+v", *z.Position)
	}
	if c.Move(&g, "A", models.Position{X: 70, Y: 20}) {
		t.Error("drag state not cleared after Stop")
	}
}

// TestStopAppliesRemainingDelta verifies a stop without a final move
// still moves the subtree once.
func TestStopAppliesRemainingDelta(t *testing.T) {
	cats, g := fixture()
	c := NewCoordinator()

	c.Start("A", models.Position{X: 0, Y: 0})
	commit := c.Stop(&g, "A", models.Position{X: 30, Y: 0})

	b, _ := category.Find(category.SetPositions(cats, commit.Positions), "B")
	if *b.Position != (models.Position{X: 40, Y: 120}) {
		t.Errorf("B = %+v, want {40 120}", *b.Position)
	}
}

// TestRepeatedMoveDoesNotDoubleApply verifies the same position twice
// shifts descendants once.
func TestRepeatedMoveDoesNotDoubleApply(t *testing.T) {
	_, g := fixture()
	c := NewCoordinator()

	c.Start("A", models.Position{})
	c.Move(&g, "A", models.Position{X: 10})
	c.Move(&g, "A", models.Position{X: 10})

	if got := g.Node("B").Position.X; got != 20 {
		t.Errorf("B x = %v, want 20", got)
	}
}

func TestMoveWithoutStartIsIgnored(t *testing.T) {
	_, g := fixture()
	c := NewCoordinator()
	if c.Move(&g, "A", models.Position{X: 99}) {
		t.Error("Move without Start returned true")
	}
	if got := g.Node("A").Position.X; got != 0 {
		t.Errorf("A x = %v, want 0", got)
	}
}

// TestCommitKeepsGraphConsistent verifies the graph after a drag matches
// a fresh build of the committed collection.
func TestCommitKeepsGraphConsistent(t *testing.T) {
	cats, g := fixture()
	c := NewCoordinator()
	c.Start("B", g.Node("B").Position)
	commit := c.Stop(&g, "B", models.Position{X: -40, Y: 200})

	rebuilt := tree.Build(category.SetPositions(cats, commit.Positions), tree.Options{Language: "en"})
	for _, n := range rebuilt.Nodes {
		if got := g.Node(n.ID).Position; got != n.Position {
			t.Errorf("%s: graph %+v, rebuilt %+v", n.ID, got, n.Position)
		}
	}
}

// TestRestoreKeepsSubtreeRigidAfterRebuild rebuilds the graph mid-drag, as
// happens when the collection changes during the gesture, and checks that
// the subtree keeps its accumulated offset.
func TestRestoreKeepsSubtreeRigidAfterRebuild(t *testing.T) {
	cats, g := fixture()
	c := NewCoordinator()

	c.Start("A", models.Position{X: 0, Y: 0})
	c.Move(&g, "A", models.Position{X: 50, Y: 20})

	g = tree.Build(cats, tree.Options{Language: "en"})
	c.Restore(&g)

	if got := g.Node("A").Position; got != (models.Position{X: 50, Y: 20}) {
		t.Errorf("A after restore = %+v, want {50 20}", got)
	}
	if got := g.Node("B").Position; got != (models.Position{X: 60, Y: 140}) {
		t.Errorf("B after restore = %+v, want {60 140}", got)
	}
	if got := g.Node("Z").Position; got != (models.Position{X: 500, Y: 0}) {
		t.Errorf("unrelated Z moved to %+v", got)
	}

	commit := c.Stop(&g, "A", models.Position{X: 60, Y: 20})
	b, _ := category.Find(category.SetPositions(cats, commit.Positions), "B")
	if *b.Position != (models.Position{X: 70, Y: 140}) {
		t.Errorf("B stored position = %+v, want {70 140}", *b.Position)
	}
}

func TestRestoreDropsRemovedNode(t *testing.T) {
	_, g := fixture()
	c := NewCoordinator()
	c.Start("A", models.Position{X: 0, Y: 0})

	empty := models.Graph{}
	c.Restore(&empty)

	if c.Move(&g, "A", models.Position{X: 5, Y: 5}) {
		t.Error("drag on a node missing from the rebuilt graph survived Restore")
	}
}
