// Copyright 2026 AgentFlow Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license.

/*
Package testutil 提供 FlowPlan 测试的共享画布构造工具。

# 概述

testutil 包为编译器的单元测试与属性测试提供统一的画布（Flow）
构造能力，避免各测试文件重复手写节点与连线。所有测试应优先
使用此包中的工厂函数来搭建输入画布。

# 核心能力

  - 节点与连线: TaskNode / SeqEdge，按默认 handle 约定构造
    任务节点与顺序连线
  - 单区域画布: SingleRegionFlow / ChainFlow，快速搭建线性链
  - 拓扑模板: FanOutFlow（分叉）、DiamondFlow（分叉-汇合）
  - 跨区域: CrossRegionFlow，按链接名配对 link-out / link-in

# 使用示例

	flow := testutil.DiamondFlow()
	result, err := flowplan.Compile(ctx, flow, nil)
*/
package testutil
