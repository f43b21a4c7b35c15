package game

import "testing"

func TestCanJoinInfo(t *testing.T) {
	canJoinTests := []struct {
		info       Info
		playerName string
		want       bool
	}{
		{},
		{
			info: Info{
				Status: NotStarted,
			},
		},
		{
			info: Info{
				Status:   NotStarted,
				Capacity: 1,
			},
			want: true,
		},
		{
			info: Info{
				Status:   NotStarted,
				Players:  []PlayerInfo{{Name: "wilma"}},
				Capacity: 1,
			},
			playerName: "fred",
		},
		{
			info: Info{
				Status:   InProgress,
				Players:  []PlayerInfo{{Name: "fred"}, {Name: "wilma"}},
				Capacity: 2,
			},
			playerName: "wilma",
			want:       true,
		},
		{
			info: Info{
				Status:   InProgress,
				Players:  []PlayerInfo{{Name: "wilma"}},
				Capacity: 4,
			},
			playerName: "fred",
		},
		{
			info: Info{
				Status:   Finished,
				Players:  []PlayerInfo{{Name: "wilma"}},
				Capacity: 1,
			},
			playerName: "wilma",
			want:       true,
		},
	}
	for i, test := range canJoinTests {
		got := test.info.CanJoin(test.playerName)
		if test.want != got {
			t.Errorf("Test %v: wanted CanJoin() = %v, got %v when info is %v", i, test.want, got, test.info)
		}
	}
}

func TestCapacityRatio(t *testing.T) {
	capacityRatioTests := []struct {
		want string
		Info
	}{
		{
			want: "0/0",
		},
		{
			want: "0/4",
			Info: Info{
				Capacity: 4,
			},
		},
		{
			want: "1/2",
			Info: Info{
				Players:  []PlayerInfo{{Name: "wilma"}},
				Capacity: 2,
			},
		},
		{
			want: "3/3",
			Info: Info{
				Players:  []PlayerInfo{{Name: "wilma"}, {Name: "fred"}, {Name: "barney"}},
				Capacity: 3,
			},
		},
	}
	for i, test := range capacityRatioTests {
		got := test.Info.CapacityRatio()
		if test.want != got {
			t.Errorf("Test %v: wanted capacity ratio of '%v', got '%v' when info is %v", i, test.want, got, test.Info)
		}
	}
}
