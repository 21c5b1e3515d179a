package script

type Step struct {
	Expect string
	Send   string
}

type Steps struct {
	values []Step
}

func NewSteps(values ...Step) *Steps {
	return &Steps{values}
}

func (d *Steps) Add(value Step) {
	d.values = append(d.values, value)
}

func (d *Steps) Values() []Step {
	return d.values
}

func (d *Steps) Len() int {
	return len(d.values)
}
