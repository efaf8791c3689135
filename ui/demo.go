package ui

import "more-shortcuts/widget"

// DemoScene builds the sample city-builder toolbar the host shows. It has
// the shapes shortcuts must cope with: same-name siblings, same-name widgets
// in panels that are shown one at a time, a disabled button and a text field.
func DemoScene() *widget.Tree {
	roadsPanel := widget.NewNode(widget.KindPanel, "RoadsPanel").SetText("Roads").SetVisible(false).Add(
		widget.NewNode(widget.KindButton, "Build").SetText("BUILD ROADS"),
		widget.NewNode(widget.KindButton, "Build").SetText("BUILD HIGHWAY"),
		widget.NewNode(widget.KindButton, "Upgrade").SetText("UPGRADE ROAD"),
		widget.NewNode(widget.KindButton, "Close"),
	)
	zoningPanel := widget.NewNode(widget.KindPanel, "ZoningPanel").SetText("Zoning").SetVisible(false).Add(
		widget.NewNode(widget.KindButton, "Residential"),
		widget.NewNode(widget.KindButton, "Commercial"),
		widget.NewNode(widget.KindButton, "Industrial"),
		widget.NewNode(widget.KindButton, "Close"),
	)

	showOnly := func(panel *widget.Node, others ...*widget.Node) func(*widget.Node) {
		return func(*widget.Node) {
			panel.SetVisible(!panel.Shown())
			for _, o := range others {
				o.SetVisible(false)
			}
		}
	}
	closeParent := func(n *widget.Node) {
		if p, ok := n.Parent().(*widget.Node); ok {
			p.SetVisible(false)
		}
	}
	for _, panel := range []*widget.Node{roadsPanel, zoningPanel} {
		for _, child := range panel.Nodes() {
			if child.Name() == "Close" {
				child.OnClick(closeParent)
			}
		}
	}

	speed := widget.NewNode(widget.KindMultiStateButton, "Speed")
	speed.States = []string{"1x", "2x", "3x"}
	pause := widget.NewNode(widget.KindMultiStateButton, "Pause")
	pause.States = []string{"Pause", "Play"}

	toolbar := widget.NewNode(widget.KindPanel, "MainToolbar").SetText("Toolbar").Add(
		widget.NewNode(widget.KindButton, "Roads").OnClick(showOnly(roadsPanel, zoningPanel)),
		widget.NewNode(widget.KindButton, "Zoning").OnClick(showOnly(zoningPanel, roadsPanel)),
		widget.NewNode(widget.KindButton, "Bulldozer"),
		widget.NewNode(widget.KindButton, "Unlock").SetText("Unlock Area").SetEnabled(false),
	)
	controls := widget.NewNode(widget.KindPanel, "Controls").SetText("Simulation").Add(
		widget.NewNode(widget.KindLabel, "SpeedLabel").SetText("Speed"),
		speed,
		pause,
		widget.NewNode(widget.KindCheckBox, "ShowGrid").SetText("Show grid"),
		widget.NewNode(widget.KindTextField, "Search"),
	)

	return widget.NewTree(toolbar, roadsPanel, zoningPanel, controls)
}
